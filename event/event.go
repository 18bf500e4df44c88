// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package event

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// EventQueueSize is the size of each subscriber's delivery channel
	EventQueueSize = 20
)

type EventType string

type EventSubscriberId int

type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

// EventBus is a simple publish/subscribe event bus. Delivery is
// synchronous: Publish blocks if a subscriber's queue is full, so
// subscribers are expected to drain their channels promptly.
type EventBus struct {
	subscribers map[EventType]map[EventSubscriberId]chan Event
	metrics     struct {
		eventsPublished *prometheus.CounterVec
		subscribers     prometheus.Gauge
	}
	lastSubId EventSubscriberId
	mu        sync.RWMutex
}

// NewEventBus creates a new EventBus. A nil promRegistry disables
// metrics registration.
func NewEventBus(promRegistry prometheus.Registerer) *EventBus {
	e := &EventBus{
		subscribers: make(map[EventType]map[EventSubscriberId]chan Event),
	}
	if promRegistry != nil {
		promautoFactory := promauto.With(promRegistry)
		e.metrics.eventsPublished = promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curio_eventbus_events_published_total",
				Help: "total events published by event type",
			},
			[]string{"type"},
		)
		e.metrics.subscribers = promautoFactory.NewGauge(
			prometheus.GaugeOpts{
				Name: "curio_eventbus_subscribers",
				Help: "current count of event bus subscribers",
			},
		)
	}
	return e
}

// Subscribe registers a new subscriber for the given event type and
// returns its ID along with the delivery channel
func (e *EventBus) Subscribe(
	eventType EventType,
) (EventSubscriberId, <-chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSubId++
	subId := e.lastSubId
	evtCh := make(chan Event, EventQueueSize)
	if _, ok := e.subscribers[eventType]; !ok {
		e.subscribers[eventType] = make(
			map[EventSubscriberId]chan Event,
		)
	}
	e.subscribers[eventType][subId] = evtCh
	if e.metrics.subscribers != nil {
		e.metrics.subscribers.Inc()
	}
	return subId, evtCh
}

// Unsubscribe removes the given subscriber and closes its delivery
// channel
func (e *EventBus) Unsubscribe(
	eventType EventType,
	subId EventSubscriberId,
) {
	e.mu.Lock()
	defer e.mu.Unlock()
	subs, ok := e.subscribers[eventType]
	if !ok {
		return
	}
	evtCh, ok := subs[subId]
	if !ok {
		return
	}
	delete(subs, subId)
	close(evtCh)
	if e.metrics.subscribers != nil {
		e.metrics.subscribers.Dec()
	}
}

// Stop closes all subscriber channels and clears the subscriber list
func (e *EventBus) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, subs := range e.subscribers {
		for _, evtCh := range subs {
			close(evtCh)
		}
	}
	e.subscribers = make(map[EventType]map[EventSubscriberId]chan Event)
	if e.metrics.subscribers != nil {
		e.metrics.subscribers.Set(0)
	}
}

// Publish delivers the given event to all subscribers for its type
func (e *EventBus) Publish(eventType EventType, evt Event) {
	// Build list of channels inside read lock to avoid map race condition
	e.mu.RLock()
	subs := e.subscribers[eventType]
	evtChans := make([]chan Event, 0, len(subs))
	for _, evtCh := range subs {
		evtChans = append(evtChans, evtCh)
	}
	e.mu.RUnlock()
	// Send event on gathered channels outside of the lock so a slow
	// subscriber cannot block Subscribe/Unsubscribe/Stop
	for _, evtCh := range evtChans {
		e.deliver(evtCh, evt)
	}
	if e.metrics.eventsPublished != nil {
		e.metrics.eventsPublished.WithLabelValues(string(eventType)).
			Inc()
	}
}

// deliver sends on a gathered channel. Unsubscribe or Stop may close
// the channel after it was gathered, in which case the send panics and
// the event is dropped
func (e *EventBus) deliver(evtCh chan Event, evt Event) {
	defer func() {
		_ = recover()
	}()
	evtCh <- evt
}

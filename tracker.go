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

package curio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/curio/api"
	"github.com/blinklabs-io/curio/database"
	"github.com/blinklabs-io/curio/event"
	"github.com/blinklabs-io/curio/inspect"
)

// Tracker wires the validation cores, storage, event bus, and API server
// into a single runnable service
type Tracker struct {
	eventBus      *event.EventBus
	db            *database.Database
	inspector     *inspect.Inspector
	api           *api.Api
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Tracker, error) {
	eventBus := event.NewEventBus(cfg.promRegistry)
	t := &Tracker{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := t.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return t, nil
}

// EventBus returns the tracker's event bus. This can be used to subscribe
// to validation decision events
func (t *Tracker) EventBus() *event.EventBus {
	return t.eventBus
}

// Inspector returns the tracker's transaction inspector
func (t *Tracker) Inspector() *inspect.Inspector {
	return t.inspector
}

func (t *Tracker) Run(ctx context.Context) error {
	// Configure tracing
	if t.config.tracing {
		if err := t.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir: t.config.dataDir,
		Logger:  t.config.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	t.db = db
	// Initialize inspector
	t.inspector = inspect.NewInspector(inspect.InspectorConfig{
		Logger:       t.config.logger,
		PromRegistry: t.config.promRegistry,
		EventBus:     t.eventBus,
		Database:     t.db,
		Asset:        t.config.asset,
		GenesisRef:   t.config.genesisRef,
	})
	// Start validation API
	t.api = api.New(
		api.ApiConfig{
			ListenAddress: t.config.apiListenAddress,
		},
		t.inspector,
		t.config.logger,
	)
	if err := t.api.Start(ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	<-t.done
	return nil
}

func (t *Tracker) Stop() error {
	var err error
	t.shutdownOnce.Do(func() {
		err = t.shutdown()
	})
	return err
}

func (t *Tracker) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if t.config.shutdownTimeout > 0 {
		shutdownTimeout = t.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	t.config.logger.Debug("starting graceful shutdown")

	// Stop accepting new validation requests
	if t.api != nil {
		if stopErr := t.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Flush and close storage
	if t.db != nil {
		if closeErr := t.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	// Call registered shutdown functions
	for _, fn := range t.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	t.shutdownFuncs = nil

	if t.eventBus != nil {
		t.eventBus.Stop()
	}

	t.config.logger.Debug("graceful shutdown complete")
	close(t.done)
	return err
}

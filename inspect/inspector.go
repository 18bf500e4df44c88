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

package inspect

import (
	"io"
	"log/slog"

	"github.com/blinklabs-io/curio/database"
	"github.com/blinklabs-io/curio/database/models"
	"github.com/blinklabs-io/curio/event"
	"github.com/blinklabs-io/curio/provenance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TransitionAcceptedEventType event.EventType = "inspect.transition_accepted"
	TransitionRejectedEventType event.EventType = "inspect.transition_rejected"
	IssuanceAcceptedEventType   event.EventType = "inspect.issuance_accepted"
	IssuanceRejectedEventType   event.EventType = "inspect.issuance_rejected"
)

// TransitionEvent is published for every transition decision
type TransitionEvent struct {
	TxId     string
	Action   string
	NewOwner string
	Accepted bool
}

// IssuanceEvent is published for every issuance decision
type IssuanceEvent struct {
	TxId     string
	Accepted bool
}

// InspectorConfig is the configuration for an Inspector
type InspectorConfig struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	EventBus     *event.EventBus
	Database     *database.Database
	Asset        provenance.AssetID
	GenesisRef   provenance.OutputRef
}

// Inspector is the host-facing entry point around the pure decision
// cores. It resolves transaction views into validator inputs, invokes
// the predicates, and takes care of logging, metrics, events, and the
// audit log. The decision itself always comes from the pure cores.
type Inspector struct {
	config  InspectorConfig
	logger  *slog.Logger
	metrics struct {
		transitionsAccepted prometheus.Counter
		transitionsRejected prometheus.Counter
		issuancesAccepted   prometheus.Counter
		issuancesRejected   prometheus.Counter
		structuralFailures  prometheus.Counter
	}
	validator provenance.TransitionValidator
	issuance  provenance.IssuanceValidator
	eventBus  *event.EventBus
	db        *database.Database
}

// NewInspector creates a new Inspector
func NewInspector(cfg InspectorConfig) *Inspector {
	i := &Inspector{
		config: cfg,
		issuance: provenance.IssuanceValidator{
			Asset:      cfg.Asset,
			GenesisRef: cfg.GenesisRef,
		},
		eventBus: cfg.EventBus,
		db:       cfg.Database,
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		i.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		i.logger = cfg.Logger
	}
	promautoFactory := promauto.With(cfg.PromRegistry)
	i.metrics.transitionsAccepted = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "curio_transitions_accepted_total",
			Help: "total record transitions accepted",
		},
	)
	i.metrics.transitionsRejected = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "curio_transitions_rejected_total",
			Help: "total record transitions rejected",
		},
	)
	i.metrics.issuancesAccepted = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "curio_issuances_accepted_total",
			Help: "total issuances accepted",
		},
	)
	i.metrics.issuancesRejected = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "curio_issuances_rejected_total",
			Help: "total issuances rejected",
		},
	)
	i.metrics.structuralFailures = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "curio_structural_failures_total",
			Help: "total transactions failing structural preconditions",
		},
	)
	return i
}

// ValidateTransition decides whether the given transaction legally
// transitions the tracked record. A structural failure (malformed or
// ambiguous transaction) is returned as an error; a business-rule
// rejection is a false return with a nil error.
func (i *Inspector) ValidateTransition(
	tx TxView,
	trackedRef provenance.OutputRef,
	action provenance.Action,
) (bool, error) {
	resolved, err := ResolveTransition(tx, trackedRef, i.config.Asset)
	if err != nil {
		i.metrics.structuralFailures.Inc()
		i.logger.Warn(
			"structural failure resolving transition",
			"component", "inspect",
			"tx_hash", tx.TxId.String(),
			"error", err,
		)
		return false, err
	}
	accepted := i.validator.Validate(
		resolved.Current,
		action,
		resolved.Proposed,
		resolved.Signers,
		resolved.Tokens,
	)
	evtData := TransitionEvent{
		TxId:     tx.TxId.String(),
		Action:   provenance.ActionString(action),
		NewOwner: resolved.Proposed.CurrentOwner.String(),
		Accepted: accepted,
	}
	if !accepted {
		i.metrics.transitionsRejected.Inc()
		i.logger.Debug(
			"rejected transition",
			"component", "inspect",
			"tx_hash", tx.TxId.String(),
			"action", evtData.Action,
		)
		i.publish(TransitionRejectedEventType, evtData)
		return false, nil
	}
	i.metrics.transitionsAccepted.Inc()
	i.logger.Info(
		"accepted transition",
		"component", "inspect",
		"tx_hash", tx.TxId.String(),
		"action", evtData.Action,
		"new_owner", evtData.NewOwner,
	)
	i.publish(TransitionAcceptedEventType, evtData)
	i.recordAccepted(tx, action, resolved)
	return true, nil
}

// ValidateIssuance decides whether the given transaction legally mints
// the one-time state token
func (i *Inspector) ValidateIssuance(tx TxView) bool {
	accepted := i.issuance.ValidateIssuance(tx.ConsumedRefs(), tx.Mint)
	evtData := IssuanceEvent{
		TxId:     tx.TxId.String(),
		Accepted: accepted,
	}
	if accepted {
		i.metrics.issuancesAccepted.Inc()
		i.logger.Info(
			"accepted issuance",
			"component", "inspect",
			"tx_hash", tx.TxId.String(),
		)
		i.publish(IssuanceAcceptedEventType, evtData)
	} else {
		i.metrics.issuancesRejected.Inc()
		i.logger.Debug(
			"rejected issuance",
			"component", "inspect",
			"tx_hash", tx.TxId.String(),
		)
		i.publish(IssuanceRejectedEventType, evtData)
	}
	return accepted
}

// RecentTransitions returns the most recent accepted transitions from
// the audit log
func (i *Inspector) RecentTransitions(
	limit int,
) ([]models.Transition, error) {
	if i.db == nil {
		return nil, nil
	}
	return i.db.Metadata().RecentTransitions(limit)
}

func (i *Inspector) publish(eventType event.EventType, data any) {
	if i.eventBus == nil {
		return
	}
	i.eventBus.Publish(eventType, event.NewEvent(eventType, data))
}

// recordAccepted appends an accepted transition to the audit log. A
// storage failure doesn't change the decision, which has already been
// made by the pure core; it is logged and the decision stands.
func (i *Inspector) recordAccepted(
	tx TxView,
	action provenance.Action,
	resolved ResolvedTransition,
) {
	if i.db == nil {
		return
	}
	txId := tx.TxId.String()
	if err := i.db.Metadata().AddTransition(
		&models.Transition{
			TxId:          txId,
			Action:        provenance.ActionString(action),
			PreviousOwner: resolved.Current.CurrentOwner.String(),
			NewOwner:      resolved.Proposed.CurrentOwner.String(),
			CommentCount:  uint(len(resolved.Proposed.Comments)),
		},
	); err != nil {
		i.logger.Error(
			"failed to record accepted transition",
			"component", "inspect",
			"tx_hash", txId,
			"error", err,
		)
		return
	}
	datum, err := resolved.Proposed.Cbor()
	if err != nil {
		i.logger.Error(
			"failed to encode record datum",
			"component", "inspect",
			"tx_hash", txId,
			"error", err,
		)
		return
	}
	if err := i.db.Blob().PutDatum(txId, datum); err != nil {
		i.logger.Error(
			"failed to store record datum",
			"component", "inspect",
			"tx_hash", txId,
			"error", err,
		)
	}
}

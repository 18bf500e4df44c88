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

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/curio/api"
	"github.com/blinklabs-io/curio/database"
	"github.com/blinklabs-io/curio/event"
	"github.com/blinklabs-io/curio/inspect"
	"github.com/blinklabs-io/curio/internal/config"
	"github.com/blinklabs-io/curio/provenance"
	"github.com/spf13/cobra"
)

// newOneShotInspector builds an inspector backed by in-memory storage
// for evaluating a single transaction from the command line
func newOneShotInspector(
	cfg *config.Config,
	logger *slog.Logger,
) (*inspect.Inspector, func(), error) {
	trackedAsset, err := cfg.TrackedAsset()
	if err != nil {
		return nil, nil, err
	}
	genesisRef, err := cfg.GenesisOutputRef()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(&database.Config{
		Logger: logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	inspector := inspect.NewInspector(inspect.InspectorConfig{
		Logger:     logger,
		EventBus:   event.NewEventBus(nil),
		Database:   db,
		Asset:      trackedAsset,
		GenesisRef: genesisRef,
	})
	cleanup := func() {
		db.Close()
	}
	return inspector, cleanup, nil
}

func validateTransitionRun(cfg *config.Config, path string) error {
	logger := commonRun()
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading transaction file: %w", err)
	}
	var req api.TransitionRequest
	if err := json.Unmarshal(buf, &req); err != nil {
		return fmt.Errorf("error parsing transaction file: %w", err)
	}
	action, ok := provenance.ActionFromString(req.Action)
	if !ok {
		return fmt.Errorf("unknown action: %s", req.Action)
	}
	trackedRef, err := req.TrackedInput.ToOutputRef()
	if err != nil {
		return err
	}
	tx, err := req.Tx.ToTxView()
	if err != nil {
		return err
	}
	inspector, cleanup, err := newOneShotInspector(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	accepted, err := inspector.ValidateTransition(tx, trackedRef, action)
	if err != nil {
		return fmt.Errorf("transaction could not be evaluated: %w", err)
	}
	fmt.Printf("accepted: %t\n", accepted)
	if !accepted {
		os.Exit(1)
	}
	return nil
}

func validateIssuanceRun(cfg *config.Config, path string) error {
	logger := commonRun()
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading transaction file: %w", err)
	}
	var req api.IssuanceRequest
	if err := json.Unmarshal(buf, &req); err != nil {
		return fmt.Errorf("error parsing transaction file: %w", err)
	}
	tx, err := req.Tx.ToTxView()
	if err != nil {
		return err
	}
	inspector, cleanup, err := newOneShotInspector(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	accepted := inspector.ValidateIssuance(tx)
	fmt.Printf("accepted: %t\n", accepted)
	if !accepted {
		os.Exit(1)
	}
	return nil
}

func validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Evaluate a single transaction from a JSON file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "transition [file]",
			Short: "Evaluate a record transition transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.FromContext(cmd.Context())
				if cfg == nil {
					slog.Error("no config found in context")
					os.Exit(1)
				}
				return validateTransitionRun(cfg, args[0])
			},
		},
		&cobra.Command{
			Use:   "issuance [file]",
			Short: "Evaluate a one-time issuance transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.FromContext(cmd.Context())
				if cfg == nil {
					slog.Error("no config found in context")
					os.Exit(1)
				}
				return validateIssuanceRun(cfg, args[0])
			},
		},
	)
	return cmd
}

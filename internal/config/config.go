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

package config

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/curio/provenance"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "curio.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	ApiListenAddress string `yaml:"apiListenAddress"                             split_words:"true"`
	BindAddr         string `yaml:"bindAddr"                                     split_words:"true"`
	DatabasePath     string `yaml:"databasePath"                                 split_words:"true"`
	PolicyId         string `yaml:"policyId"         envconfig:"CURIO_POLICY_ID"`
	AssetName        string `yaml:"assetName"                                    split_words:"true"`
	GenesisTxId      string `yaml:"genesisTxId"      envconfig:"CURIO_GENESIS_TX_ID"`
	ShutdownTimeout  string `yaml:"shutdownTimeout"                              split_words:"true"`
	GenesisTxIndex   uint32 `yaml:"genesisTxIndex"   envconfig:"CURIO_GENESIS_TX_INDEX"`
	MetricsPort      uint   `yaml:"metricsPort"                                  split_words:"true"`
	Tracing          bool   `yaml:"tracing"`
	TracingStdout    bool   `yaml:"tracingStdout"                                split_words:"true"`
}

var globalConfig = &Config{
	ApiListenAddress: ":8080",
	BindAddr:         "0.0.0.0",
	DatabasePath:     ".curio",
	MetricsPort:      12798,
	ShutdownTimeout:  DefaultShutdownTimeout,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.curio/curio.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".curio", "curio.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/curio/curio.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/curio/curio.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Overlay config values onto existing defaults
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("curio", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	// Validate asset designators up front so a bad value fails at
	// startup rather than on the first validation request
	if globalConfig.PolicyId != "" {
		if _, err := globalConfig.TrackedAsset(); err != nil {
			return nil, err
		}
	}
	if globalConfig.GenesisTxId != "" {
		if _, err := globalConfig.GenesisOutputRef(); err != nil {
			return nil, err
		}
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}

// TrackedAsset returns the designated state token described by the
// config's policy ID and asset name
func (c *Config) TrackedAsset() (provenance.AssetID, error) {
	var ret provenance.AssetID
	policyId, err := hex.DecodeString(c.PolicyId)
	if err != nil {
		return ret, fmt.Errorf("invalid policy ID %q: %w", c.PolicyId, err)
	}
	if len(policyId) != 28 {
		return ret, fmt.Errorf(
			"invalid policy ID length: %d",
			len(policyId),
		)
	}
	ret.PolicyId = lcommon.NewBlake2b224(policyId)
	ret.Name = c.AssetName
	return ret, nil
}

// GenesisOutputRef returns the output that the one-time issuance must
// consume
func (c *Config) GenesisOutputRef() (provenance.OutputRef, error) {
	var ret provenance.OutputRef
	txId, err := hex.DecodeString(c.GenesisTxId)
	if err != nil {
		return ret, fmt.Errorf(
			"invalid genesis tx ID %q: %w",
			c.GenesisTxId,
			err,
		)
	}
	if len(txId) != 32 {
		return ret, fmt.Errorf(
			"invalid genesis tx ID length: %d",
			len(txId),
		)
	}
	ret.TxId = lcommon.NewBlake2b256(txId)
	ret.Index = c.GenesisTxIndex
	return ret, nil
}

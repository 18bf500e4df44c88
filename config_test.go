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
	"testing"
	"time"

	"github.com/blinklabs-io/curio/provenance"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAsset() provenance.AssetID {
	hashBytes := make([]byte, 28)
	for i := range hashBytes {
		hashBytes[i] = 0x22
	}
	return provenance.AssetID{
		PolicyId: lcommon.NewBlake2b224(hashBytes),
		Name:     "WidgetProvenance",
	}
}

func testGenesisRef() provenance.OutputRef {
	hashBytes := make([]byte, 32)
	for i := range hashBytes {
		hashBytes[i] = 0x33
	}
	return provenance.OutputRef{
		TxId:  lcommon.NewBlake2b256(hashBytes),
		Index: 1,
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger)
	assert.Empty(t, cfg.dataDir)
	assert.Empty(t, cfg.apiListenAddress)
	assert.False(t, cfg.tracing)
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithDatabasePath("/tmp/curio-test"),
		WithTrackedAsset(testAsset()),
		WithGenesisOutputRef(testGenesisRef()),
		WithApiListenAddress("localhost:9000"),
		WithTracing(true),
		WithTracingStdout(true),
		WithShutdownTimeout(5*time.Second),
	)
	assert.Equal(t, "/tmp/curio-test", cfg.dataDir)
	assert.Equal(t, testAsset(), cfg.asset)
	assert.Equal(t, testGenesisRef(), cfg.genesisRef)
	assert.Equal(t, "localhost:9000", cfg.apiListenAddress)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
}

func TestNewValidConfig(t *testing.T) {
	tracker, err := New(NewConfig(
		WithTrackedAsset(testAsset()),
		WithGenesisOutputRef(testGenesisRef()),
	))
	require.NoError(t, err)
	require.NotNil(t, tracker)
	assert.NotNil(t, tracker.EventBus())
}

func TestNewInvalidConfig(t *testing.T) {
	testDefs := []struct {
		name string
		cfg  Config
	}{
		{
			"empty config",
			NewConfig(),
		},
		{
			"missing asset name",
			NewConfig(
				WithTrackedAsset(provenance.AssetID{
					PolicyId: testAsset().PolicyId,
				}),
				WithGenesisOutputRef(testGenesisRef()),
			),
		},
		{
			"missing genesis ref",
			NewConfig(
				WithTrackedAsset(testAsset()),
			),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := New(testDef.cfg)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

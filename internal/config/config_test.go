package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const (
	testPolicyIdHex = "22222222222222222222222222222222222222222222222222222222"
	testTxIdHex     = "3333333333333333333333333333333333333333333333333333333333333333"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		ApiListenAddress: ":8080",
		BindAddr:         "0.0.0.0",
		DatabasePath:     ".curio",
		MetricsPort:      12798,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
apiListenAddress: "127.0.0.1:9999"
bindAddr: "127.0.0.1"
databasePath: ".curio-test"
policyId: "` + testPolicyIdHex + `"
assetName: "WidgetProvenance"
genesisTxId: "` + testTxIdHex + `"
genesisTxIndex: 2
metricsPort: 8088
tracing: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-curio.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		ApiListenAddress: "127.0.0.1:9999",
		BindAddr:         "127.0.0.1",
		DatabasePath:     ".curio-test",
		PolicyId:         testPolicyIdHex,
		AssetName:        "WidgetProvenance",
		GenesisTxId:      testTxIdHex,
		GenesisTxIndex:   2,
		MetricsPort:      8088,
		ShutdownTimeout:  DefaultShutdownTimeout,
		Tracing:          true,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_InvalidPolicyId(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
policyId: "not-hex"
assetName: "WidgetProvenance"
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-curio.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	_, err := LoadConfig(tmpFile)
	if err == nil {
		t.Fatal("expected error for invalid policy ID, got none")
	}
	if !strings.Contains(err.Error(), "invalid policy ID") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTrackedAsset(t *testing.T) {
	cfg := &Config{
		PolicyId:  testPolicyIdHex,
		AssetName: "WidgetProvenance",
	}
	asset, err := cfg.TrackedAsset()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.PolicyId.String() != testPolicyIdHex {
		t.Errorf(
			"unexpected policy ID: %s",
			asset.PolicyId.String(),
		)
	}
	if asset.Name != "WidgetProvenance" {
		t.Errorf("unexpected asset name: %s", asset.Name)
	}

	// Wrong length
	cfg.PolicyId = "abcd"
	if _, err := cfg.TrackedAsset(); err == nil {
		t.Error("expected error for short policy ID, got none")
	}
}

func TestGenesisOutputRef(t *testing.T) {
	cfg := &Config{
		GenesisTxId:    testTxIdHex,
		GenesisTxIndex: 1,
	}
	ref, err := cfg.GenesisOutputRef()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.TxId.String() != testTxIdHex {
		t.Errorf("unexpected tx ID: %s", ref.TxId.String())
	}
	if ref.Index != 1 {
		t.Errorf("unexpected index: %d", ref.Index)
	}
}

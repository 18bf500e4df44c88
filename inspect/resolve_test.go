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
	"testing"

	"github.com/blinklabs-io/curio/provenance"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTrackerAddress = "addr_test1tracker"

func testKeyHash(seed byte) provenance.KeyHash {
	tmp := make([]byte, 28)
	for i := range tmp {
		tmp[i] = seed
	}
	return lcommon.NewBlake2b224(tmp)
}

func testTxId(seed byte) lcommon.Blake2b256 {
	tmp := make([]byte, 32)
	for i := range tmp {
		tmp[i] = seed
	}
	return lcommon.NewBlake2b256(tmp)
}

var (
	testOwner1 = testKeyHash(0x11)
	testOwner2 = testKeyHash(0x22)
	testAsset  = provenance.AssetID{
		PolicyId: testKeyHash(0xaa),
		Name:     "CurioState",
	}
	testTrackedRef = provenance.OutputRef{
		TxId:  testTxId(0x01),
		Index: 0,
	}
)

func testRecord(owner provenance.KeyHash) provenance.Record {
	return provenance.Record{
		Manufacturer: testKeyHash(0x01),
		MintedAt:     1700000000,
		ExpiresAt:    1800000000,
		Photos:       []string{"ipfs://QmPhoto1"},
		CurrentOwner: owner,
		OwnerHistory: []provenance.KeyHash{},
		Comments:     []string{},
	}
}

func mustCbor(t *testing.T, r provenance.Record) []byte {
	t.Helper()
	data, err := r.Cbor()
	require.NoError(t, err)
	return data
}

// testCommentTx builds a well-formed comment transaction view
func testCommentTx(t *testing.T) TxView {
	t.Helper()
	current := testRecord(testOwner1)
	proposed := testRecord(testOwner1)
	proposed.Comments = []string{"great product"}
	return TxView{
		TxId: testTxId(0xff),
		Inputs: []ResolvedInput{
			{
				Ref: testTrackedRef,
				Output: Output{
					Address: testTrackerAddress,
					Assets:  map[provenance.AssetID]uint64{testAsset: 1},
					Datum:   mustCbor(t, current),
				},
			},
		},
		Outputs: []Output{
			{
				Address: "addr_test1change",
			},
			{
				Address: testTrackerAddress,
				Assets:  map[provenance.AssetID]uint64{testAsset: 1},
				Datum:   mustCbor(t, proposed),
			},
		},
		Signers: []provenance.KeyHash{testOwner1},
	}
}

func TestResolveTransition(t *testing.T) {
	tx := testCommentTx(t)
	resolved, err := ResolveTransition(tx, testTrackedRef, testAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resolved.Tokens.Consumed)
	assert.Equal(t, uint64(1), resolved.Tokens.Continuing)
	assert.True(t, resolved.Signers.Has(testOwner1))
	expectedCurrent := testRecord(testOwner1)
	if diff := cmp.Diff(expectedCurrent, resolved.Current); diff != "" {
		t.Fatalf("current record mismatch: %s", diff)
	}
	assert.Equal(t, []string{"great product"}, resolved.Proposed.Comments)
}

func TestResolveTransitionMissingInput(t *testing.T) {
	tx := testCommentTx(t)
	otherRef := provenance.OutputRef{TxId: testTxId(0x02), Index: 5}
	_, err := ResolveTransition(tx, otherRef, testAsset)
	assert.ErrorIs(t, err, ErrTrackedInputMissing)
}

func TestResolveTransitionNoContinuingOutput(t *testing.T) {
	tx := testCommentTx(t)
	tx.Outputs = tx.Outputs[:1]
	_, err := ResolveTransition(tx, testTrackedRef, testAsset)
	assert.ErrorIs(t, err, ErrNoContinuingOutput)
}

func TestResolveTransitionMultipleContinuingOutputs(t *testing.T) {
	tx := testCommentTx(t)
	tx.Outputs = append(tx.Outputs, Output{Address: testTrackerAddress})
	_, err := ResolveTransition(tx, testTrackedRef, testAsset)
	assert.ErrorIs(t, err, ErrMultipleContinuingOutputs)
}

func TestResolveTransitionMissingDatum(t *testing.T) {
	tx := testCommentTx(t)
	tx.Outputs[1].Datum = nil
	_, err := ResolveTransition(tx, testTrackedRef, testAsset)
	assert.ErrorIs(t, err, ErrMissingDatum)
	var datumErr *DatumError
	require.ErrorAs(t, err, &datumErr)
	assert.Equal(t, "continuing", datumErr.Position)
}

func TestResolveTransitionMalformedDatum(t *testing.T) {
	tx := testCommentTx(t)
	tx.Inputs[0].Output.Datum = []byte{0xff, 0x00}
	_, err := ResolveTransition(tx, testTrackedRef, testAsset)
	var datumErr *DatumError
	require.ErrorAs(t, err, &datumErr)
	assert.Equal(t, "consumed", datumErr.Position)
}

func TestResolveTransitionTokenCounts(t *testing.T) {
	tx := testCommentTx(t)
	// Missing token at continuing position resolves fine; the validator
	// is the one that rejects it
	delete(tx.Outputs[1].Assets, testAsset)
	resolved, err := ResolveTransition(tx, testTrackedRef, testAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resolved.Tokens.Consumed)
	assert.Equal(t, uint64(0), resolved.Tokens.Continuing)
}

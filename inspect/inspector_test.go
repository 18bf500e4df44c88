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
	"time"

	"github.com/blinklabs-io/curio/database"
	"github.com/blinklabs-io/curio/event"
	"github.com/blinklabs-io/curio/provenance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGenesisRef = provenance.OutputRef{
	TxId:  testTxId(0x0a),
	Index: 1,
}

func newTestInspector(t *testing.T) (*Inspector, *event.EventBus) {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	eventBus := event.NewEventBus(nil)
	return NewInspector(InspectorConfig{
		PromRegistry: prometheus.NewRegistry(),
		EventBus:     eventBus,
		Database:     db,
		Asset:        testAsset,
		GenesisRef:   testGenesisRef,
	}), eventBus
}

func recvEvent(t *testing.T, evtCh <-chan event.Event) event.Event {
	t.Helper()
	select {
	case evt := <-evtCh:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return event.Event{}
	}
}

func TestInspectorAcceptsComment(t *testing.T) {
	inspector, eventBus := newTestInspector(t)
	subId, evtCh := eventBus.Subscribe(TransitionAcceptedEventType)
	defer eventBus.Unsubscribe(TransitionAcceptedEventType, subId)
	tx := testCommentTx(t)
	accepted, err := inspector.ValidateTransition(
		tx,
		testTrackedRef,
		provenance.CommentAction{},
	)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(inspector.metrics.transitionsAccepted),
	)
	evt := recvEvent(t, evtCh)
	evtData, ok := evt.Data.(TransitionEvent)
	require.True(t, ok)
	assert.True(t, evtData.Accepted)
	assert.Equal(t, "comment", evtData.Action)
	// Audit log entry
	transitions, err := inspector.RecentTransitions(10)
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, tx.TxId.String(), transitions[0].TxId)
	assert.Equal(t, uint(1), transitions[0].CommentCount)
	// Raw datum stored
	datum, err := inspector.db.Blob().GetDatum(tx.TxId.String())
	require.NoError(t, err)
	record, err := provenance.RecordFromCbor(datum)
	require.NoError(t, err)
	assert.Equal(t, []string{"great product"}, record.Comments)
}

func TestInspectorRejectsUnauthorized(t *testing.T) {
	inspector, eventBus := newTestInspector(t)
	subId, evtCh := eventBus.Subscribe(TransitionRejectedEventType)
	defer eventBus.Unsubscribe(TransitionRejectedEventType, subId)
	tx := testCommentTx(t)
	tx.Signers = []provenance.KeyHash{testOwner2}
	accepted, err := inspector.ValidateTransition(
		tx,
		testTrackedRef,
		provenance.CommentAction{},
	)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(inspector.metrics.transitionsRejected),
	)
	evt := recvEvent(t, evtCh)
	evtData, ok := evt.Data.(TransitionEvent)
	require.True(t, ok)
	assert.False(t, evtData.Accepted)
	// No audit log entry for rejections
	transitions, err := inspector.RecentTransitions(10)
	require.NoError(t, err)
	assert.Len(t, transitions, 0)
}

func TestInspectorStructuralFailure(t *testing.T) {
	inspector, _ := newTestInspector(t)
	tx := testCommentTx(t)
	tx.Outputs = tx.Outputs[:1]
	accepted, err := inspector.ValidateTransition(
		tx,
		testTrackedRef,
		provenance.CommentAction{},
	)
	assert.ErrorIs(t, err, ErrNoContinuingOutput)
	assert.False(t, accepted)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(inspector.metrics.structuralFailures),
	)
}

func TestInspectorValidateIssuance(t *testing.T) {
	inspector, eventBus := newTestInspector(t)
	subId, evtCh := eventBus.Subscribe(IssuanceAcceptedEventType)
	defer eventBus.Unsubscribe(IssuanceAcceptedEventType, subId)
	tx := TxView{
		TxId: testTxId(0xfe),
		Inputs: []ResolvedInput{
			{Ref: testGenesisRef},
		},
		Mint: []provenance.MintedAsset{
			{Asset: testAsset, Quantity: 1},
		},
	}
	assert.True(t, inspector.ValidateIssuance(tx))
	evt := recvEvent(t, evtCh)
	evtData, ok := evt.Data.(IssuanceEvent)
	require.True(t, ok)
	assert.True(t, evtData.Accepted)

	// Wrong quantity
	tx.Mint[0].Quantity = 2
	assert.False(t, inspector.ValidateIssuance(tx))
	// Genesis output not consumed
	tx.Mint[0].Quantity = 1
	tx.Inputs[0].Ref = provenance.OutputRef{TxId: testTxId(0x0b)}
	assert.False(t, inspector.ValidateIssuance(tx))
	assert.Equal(
		t,
		float64(2),
		testutil.ToFloat64(inspector.metrics.issuancesRejected),
	)
}

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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blinklabs-io/curio/database/models"
	"github.com/blinklabs-io/curio/inspect"
	"github.com/blinklabs-io/curio/provenance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockInspector is a configurable test double for the decision cores
type mockInspector struct {
	transitionResult bool
	transitionErr    error
	issuanceResult   bool
	transitions      []models.Transition
	transitionsErr   error
}

func (m *mockInspector) ValidateTransition(
	tx inspect.TxView,
	trackedRef provenance.OutputRef,
	action provenance.Action,
) (bool, error) {
	return m.transitionResult, m.transitionErr
}

func (m *mockInspector) ValidateIssuance(tx inspect.TxView) bool {
	return m.issuanceResult
}

func (m *mockInspector) RecentTransitions(
	limit int,
) ([]models.Transition, error) {
	if m.transitionsErr != nil {
		return nil, m.transitionsErr
	}
	if limit < len(m.transitions) {
		return m.transitions[:limit], nil
	}
	return m.transitions, nil
}

func newTestApi(m *mockInspector) *Api {
	return New(ApiConfig{}, m, nil)
}

const (
	testTxIdHex    = "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	testKeyHashHex = "11111111111111111111111111111111111111111111111111111111"
)

func testTransitionBody() string {
	req := TransitionRequest{
		Action: "comment",
		TrackedInput: OutputRefRequest{
			TxId:  testTxIdHex,
			Index: 0,
		},
		Tx: TxViewRequest{
			TxId:    testTxIdHex,
			Signers: []string{testKeyHashHex},
		},
	}
	body, _ := json.Marshal(req)
	return string(body)
}

func doRequest(
	t *testing.T,
	a *Api,
	method string,
	path string,
	body string,
	handler http.HandlerFunc,
) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	a := newTestApi(&mockInspector{})
	w := doRequest(t, a, "GET", "/health", "", a.handleHealth)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsHealthy)
}

func TestHandleValidateTransitionAccepted(t *testing.T) {
	a := newTestApi(&mockInspector{transitionResult: true})
	w := doRequest(
		t,
		a,
		"POST",
		"/api/v1/validate/transition",
		testTransitionBody(),
		a.handleValidateTransition,
	)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp DecisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.Equal(t, testTxIdHex, resp.TxId)
}

func TestHandleValidateTransitionRejected(t *testing.T) {
	a := newTestApi(&mockInspector{transitionResult: false})
	w := doRequest(
		t,
		a,
		"POST",
		"/api/v1/validate/transition",
		testTransitionBody(),
		a.handleValidateTransition,
	)
	// Business-rule rejection is still a 200
	assert.Equal(t, http.StatusOK, w.Code)
	var resp DecisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
}

func TestHandleValidateTransitionStructuralFailure(t *testing.T) {
	a := newTestApi(&mockInspector{
		transitionErr: inspect.ErrNoContinuingOutput,
	})
	w := doRequest(
		t,
		a,
		"POST",
		"/api/v1/validate/transition",
		testTransitionBody(),
		a.handleValidateTransition,
	)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleValidateTransitionBadRequests(t *testing.T) {
	a := newTestApi(&mockInspector{})
	testDefs := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{
			"unknown action",
			`{"action":"burn","tracked_input":{"tx_id":"` +
				testTxIdHex + `"},"tx":{"tx_id":"` + testTxIdHex + `"}}`,
		},
		{
			"bad tx id",
			`{"action":"comment","tracked_input":{"tx_id":"zz"},"tx":{"tx_id":"` +
				testTxIdHex + `"}}`,
		},
		{
			"bad signer hash",
			`{"action":"comment","tracked_input":{"tx_id":"` +
				testTxIdHex + `"},"tx":{"tx_id":"` + testTxIdHex +
				`","signers":["abcd"]}}`,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			w := doRequest(
				t,
				a,
				"POST",
				"/api/v1/validate/transition",
				testDef.body,
				a.handleValidateTransition,
			)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleValidateIssuance(t *testing.T) {
	a := newTestApi(&mockInspector{issuanceResult: true})
	body := `{"tx":{"tx_id":"` + testTxIdHex + `"}}`
	w := doRequest(
		t,
		a,
		"POST",
		"/api/v1/validate/issuance",
		body,
		a.handleValidateIssuance,
	)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp DecisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
}

func TestHandleTransitions(t *testing.T) {
	a := newTestApi(&mockInspector{
		transitions: []models.Transition{
			{TxId: "tx-1", Action: "comment", NewOwner: "aaaa"},
			{TxId: "tx-2", Action: "transfer", NewOwner: "bbbb"},
		},
	})
	w := doRequest(
		t,
		a,
		"GET",
		"/api/v1/transitions",
		"",
		a.handleTransitions,
	)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp []TransitionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "tx-1", resp[0].TxId)

	// Invalid count param
	w = doRequest(
		t,
		a,
		"GET",
		"/api/v1/transitions?count=0",
		"",
		a.handleTransitions,
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

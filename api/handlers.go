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
	"strconv"

	"github.com/blinklabs-io/curio/provenance"
)

const defaultTransitionCount = 20

// writeJSON writes a JSON response with the given status code
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response
func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

// handleHealth handles GET /health
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleValidateTransition handles POST /api/v1/validate/transition. A
// business-rule rejection is a 200 with accepted=false; a structural
// failure is a 422, since the transaction can't be evaluated at all.
func (a *Api) handleValidateTransition(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"invalid request body: "+err.Error(),
		)
		return
	}
	action, ok := provenance.ActionFromString(req.Action)
	if !ok {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"unknown action: "+req.Action,
		)
		return
	}
	trackedRef, err := req.TrackedInput.ToOutputRef()
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			err.Error(),
		)
		return
	}
	tx, err := req.Tx.ToTxView()
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			err.Error(),
		)
		return
	}
	accepted, err := a.inspector.ValidateTransition(tx, trackedRef, action)
	if err != nil {
		writeError(
			w,
			http.StatusUnprocessableEntity,
			"Unprocessable Entity",
			err.Error(),
		)
		return
	}
	writeJSON(w, http.StatusOK, DecisionResponse{
		TxId:     tx.TxId.String(),
		Accepted: accepted,
	})
}

// handleValidateIssuance handles POST /api/v1/validate/issuance
func (a *Api) handleValidateIssuance(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req IssuanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"invalid request body: "+err.Error(),
		)
		return
	}
	tx, err := req.Tx.ToTxView()
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			err.Error(),
		)
		return
	}
	accepted := a.inspector.ValidateIssuance(tx)
	writeJSON(w, http.StatusOK, DecisionResponse{
		TxId:     tx.TxId.String(),
		Accepted: accepted,
	})
}

// handleTransitions handles GET /api/v1/transitions and returns the
// most recent accepted transitions from the audit log
func (a *Api) handleTransitions(
	w http.ResponseWriter,
	r *http.Request,
) {
	count := defaultTransitionCount
	if countParam := r.URL.Query().Get("count"); countParam != "" {
		tmpCount, err := strconv.Atoi(countParam)
		if err != nil || tmpCount < 1 || tmpCount > 100 {
			writeError(
				w,
				http.StatusBadRequest,
				"Bad Request",
				"count must be an integer between 1 and 100",
			)
			return
		}
		count = tmpCount
	}
	transitions, err := a.inspector.RecentTransitions(count)
	if err != nil {
		a.logger.Error(
			"failed to query transitions",
			"error", err,
		)
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"failed to retrieve transitions",
		)
		return
	}
	ret := make([]TransitionResponse, 0, len(transitions))
	for _, t := range transitions {
		ret = append(ret, TransitionResponse{
			TxId:          t.TxId,
			Action:        t.Action,
			PreviousOwner: t.PreviousOwner,
			NewOwner:      t.NewOwner,
			CommentCount:  t.CommentCount,
			CreatedAt:     t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

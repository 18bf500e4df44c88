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
	"encoding/hex"
	"fmt"
	"time"

	"github.com/blinklabs-io/curio/database/models"
	"github.com/blinklabs-io/curio/inspect"
	"github.com/blinklabs-io/curio/provenance"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Inspector is the interface the API server uses to reach the decision
// cores. This decouples the HTTP server from the concrete Inspector and
// enables testing with mock implementations.
type Inspector interface {
	ValidateTransition(
		tx inspect.TxView,
		trackedRef provenance.OutputRef,
		action provenance.Action,
	) (bool, error)
	ValidateIssuance(tx inspect.TxView) bool
	RecentTransitions(limit int) ([]models.Transition, error)
}

// ErrorResponse is the error response body
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// HealthResponse is the health check response body
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// DecisionResponse is the result of a validation request
type DecisionResponse struct {
	TxId     string `json:"tx_id"`
	Accepted bool   `json:"accepted"`
}

// OutputRefRequest identifies a ledger output in a request
type OutputRefRequest struct {
	TxId  string `json:"tx_id"`
	Index uint32 `json:"index"`
}

// AssetQuantity is one native asset quantity attached to an output
type AssetQuantity struct {
	PolicyId string `json:"policy_id"`
	Name     string `json:"name"`
	Quantity uint64 `json:"quantity"`
}

// OutputRequest is the request form of a ledger output
type OutputRequest struct {
	Address string          `json:"address"`
	Assets  []AssetQuantity `json:"assets,omitempty"`
	Datum   string          `json:"datum,omitempty"`
}

// InputRequest is the request form of a resolved input
type InputRequest struct {
	Ref    OutputRefRequest `json:"ref"`
	Output OutputRequest    `json:"output"`
}

// MintEntry is one entry in the request's mint field
type MintEntry struct {
	PolicyId string `json:"policy_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// TxViewRequest is the request form of a transaction view
type TxViewRequest struct {
	TxId    string          `json:"tx_id"`
	Inputs  []InputRequest  `json:"inputs"`
	Outputs []OutputRequest `json:"outputs"`
	Signers []string        `json:"signers"`
	Mint    []MintEntry     `json:"mint,omitempty"`
}

// TransitionRequest is the body for POST /api/v1/validate/transition
type TransitionRequest struct {
	Action       string           `json:"action"`
	TrackedInput OutputRefRequest `json:"tracked_input"`
	Tx           TxViewRequest    `json:"tx"`
}

// IssuanceRequest is the body for POST /api/v1/validate/issuance
type IssuanceRequest struct {
	Tx TxViewRequest `json:"tx"`
}

// TransitionResponse is one audit log entry in a listing response
type TransitionResponse struct {
	TxId          string    `json:"tx_id"`
	Action        string    `json:"action"`
	PreviousOwner string    `json:"previous_owner"`
	NewOwner      string    `json:"new_owner"`
	CommentCount  uint      `json:"comment_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func decodeKeyHash(s string) (provenance.KeyHash, error) {
	var ret provenance.KeyHash
	data, err := hex.DecodeString(s)
	if err != nil {
		return ret, fmt.Errorf("invalid key hash %q: %w", s, err)
	}
	if len(data) != 28 {
		return ret, fmt.Errorf(
			"invalid key hash length: %d",
			len(data),
		)
	}
	return lcommon.NewBlake2b224(data), nil
}

func decodeTxId(s string) (lcommon.Blake2b256, error) {
	var ret lcommon.Blake2b256
	data, err := hex.DecodeString(s)
	if err != nil {
		return ret, fmt.Errorf("invalid tx id %q: %w", s, err)
	}
	if len(data) != 32 {
		return ret, fmt.Errorf("invalid tx id length: %d", len(data))
	}
	return lcommon.NewBlake2b256(data), nil
}

// ToOutputRef converts the request form into a ledger output reference
func (r OutputRefRequest) ToOutputRef() (provenance.OutputRef, error) {
	txId, err := decodeTxId(r.TxId)
	if err != nil {
		return provenance.OutputRef{}, err
	}
	return provenance.OutputRef{
		TxId:  txId,
		Index: r.Index,
	}, nil
}

func (r OutputRequest) toOutput() (inspect.Output, error) {
	ret := inspect.Output{
		Address: r.Address,
	}
	if len(r.Assets) > 0 {
		ret.Assets = make(map[provenance.AssetID]uint64, len(r.Assets))
		for _, asset := range r.Assets {
			policyId, err := decodeKeyHash(asset.PolicyId)
			if err != nil {
				return ret, err
			}
			assetId := provenance.AssetID{
				PolicyId: policyId,
				Name:     asset.Name,
			}
			ret.Assets[assetId] += asset.Quantity
		}
	}
	if r.Datum != "" {
		datum, err := hex.DecodeString(r.Datum)
		if err != nil {
			return ret, fmt.Errorf("invalid datum hex: %w", err)
		}
		ret.Datum = datum
	}
	return ret, nil
}

// ToTxView converts the request form into a transaction view
func (r TxViewRequest) ToTxView() (inspect.TxView, error) {
	var ret inspect.TxView
	txId, err := decodeTxId(r.TxId)
	if err != nil {
		return ret, err
	}
	ret.TxId = txId
	for _, input := range r.Inputs {
		ref, err := input.Ref.ToOutputRef()
		if err != nil {
			return ret, err
		}
		output, err := input.Output.toOutput()
		if err != nil {
			return ret, err
		}
		ret.Inputs = append(
			ret.Inputs,
			inspect.ResolvedInput{Ref: ref, Output: output},
		)
	}
	for _, output := range r.Outputs {
		tmpOutput, err := output.toOutput()
		if err != nil {
			return ret, err
		}
		ret.Outputs = append(ret.Outputs, tmpOutput)
	}
	for _, signer := range r.Signers {
		keyHash, err := decodeKeyHash(signer)
		if err != nil {
			return ret, err
		}
		ret.Signers = append(ret.Signers, keyHash)
	}
	for _, mint := range r.Mint {
		policyId, err := decodeKeyHash(mint.PolicyId)
		if err != nil {
			return ret, err
		}
		ret.Mint = append(ret.Mint, provenance.MintedAsset{
			Asset: provenance.AssetID{
				PolicyId: policyId,
				Name:     mint.Name,
			},
			Quantity: mint.Quantity,
		})
	}
	return ret, nil
}

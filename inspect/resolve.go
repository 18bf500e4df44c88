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
	"github.com/blinklabs-io/curio/provenance"
)

// ResolvedTransition is the fully-materialized input to the transition
// validator: both record snapshots, the signer set, and the state token
// counts at the consumed and continuing positions
type ResolvedTransition struct {
	Current  provenance.Record
	Proposed provenance.Record
	Signers  provenance.SignerSet
	Tokens   provenance.TokenObservation
}

// ResolveTransition performs the structural precondition resolution for
// a record transition: it locates the tracked input, finds the single
// output continuing the same address, decodes both record datums, and
// counts the designated state token at both positions. Any failure here
// is a structural failure, never a business-rule rejection.
func ResolveTransition(
	tx TxView,
	trackedRef provenance.OutputRef,
	asset provenance.AssetID,
) (ResolvedTransition, error) {
	var ret ResolvedTransition
	// Locate the consumed tracked input
	var tracked *ResolvedInput
	for i := range tx.Inputs {
		if tx.Inputs[i].Ref == trackedRef {
			tracked = &tx.Inputs[i]
			break
		}
	}
	if tracked == nil {
		return ret, ErrTrackedInputMissing
	}
	// The continuing position is the single output paying to the same
	// address as the consumed position. Zero or multiple matches make
	// the transition ambiguous and halt validation.
	var continuing *Output
	for i := range tx.Outputs {
		if tx.Outputs[i].Address != tracked.Output.Address {
			continue
		}
		if continuing != nil {
			return ret, ErrMultipleContinuingOutputs
		}
		continuing = &tx.Outputs[i]
	}
	if continuing == nil {
		return ret, ErrNoContinuingOutput
	}
	// Decode both record datums
	if len(tracked.Output.Datum) == 0 {
		return ret, &DatumError{Position: "consumed", Err: ErrMissingDatum}
	}
	current, err := provenance.RecordFromCbor(tracked.Output.Datum)
	if err != nil {
		return ret, &DatumError{Position: "consumed", Err: err}
	}
	if len(continuing.Datum) == 0 {
		return ret, &DatumError{Position: "continuing", Err: ErrMissingDatum}
	}
	proposed, err := provenance.RecordFromCbor(continuing.Datum)
	if err != nil {
		return ret, &DatumError{Position: "continuing", Err: err}
	}
	ret = ResolvedTransition{
		Current:  current,
		Proposed: proposed,
		Signers:  provenance.NewSignerSet(tx.Signers...),
		Tokens: provenance.TokenObservation{
			Consumed:   tracked.Output.Assets[asset],
			Continuing: continuing.Assets[asset],
		},
	}
	return ret, nil
}

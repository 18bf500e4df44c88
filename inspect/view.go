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
	"errors"
	"fmt"

	"github.com/blinklabs-io/curio/provenance"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Structural failures. These are distinct from a business-rule
// rejection: they mean the transaction is malformed or ambiguous and
// validation cannot even be attempted.
var (
	ErrTrackedInputMissing       = errors.New("tracked input not present in transaction")
	ErrNoContinuingOutput        = errors.New("no continuing output for tracked record")
	ErrMultipleContinuingOutputs = errors.New("multiple continuing outputs for tracked record")
	ErrMissingDatum              = errors.New("ledger position has no record datum")
)

// DatumError is a structural failure decoding a record datum at a
// specific ledger position
type DatumError struct {
	Position string
	Err      error
}

func (e *DatumError) Error() string {
	return fmt.Sprintf(
		"invalid record datum at %s position: %s",
		e.Position,
		e.Err,
	)
}

func (e *DatumError) Unwrap() error {
	return e.Err
}

// Output is the host's view of a produced ledger position: the address
// it pays to, the native asset quantities attached to it, and the raw
// record datum CBOR, if any
type Output struct {
	Address string
	Assets  map[provenance.AssetID]uint64
	Datum   []byte
}

// ResolvedInput is a consumed ledger position along with the output it
// consumes. The host resolves inputs against its view of the ledger
// before handing us the transaction.
type ResolvedInput struct {
	Ref    provenance.OutputRef
	Output Output
}

// TxView is the host's already-extracted view of a transaction: typed
// inputs and outputs, the authenticated signer set, and the mint field.
// Signature verification has happened upstream; Signers only carries
// key hashes whose witnesses checked out.
type TxView struct {
	TxId    lcommon.Blake2b256
	Inputs  []ResolvedInput
	Outputs []Output
	Signers []provenance.KeyHash
	Mint    []provenance.MintedAsset
}

// ConsumedRefs returns the output references consumed by the
// transaction
func (t TxView) ConsumedRefs() []provenance.OutputRef {
	ret := make([]provenance.OutputRef, 0, len(t.Inputs))
	for _, input := range t.Inputs {
		ret = append(ret, input.Ref)
	}
	return ret
}

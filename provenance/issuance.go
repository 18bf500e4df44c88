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

package provenance

import (
	"slices"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// AssetID identifies a native asset by minting policy and asset name
type AssetID struct {
	PolicyId lcommon.Blake2b224
	Name     string
}

// OutputRef identifies a ledger output by the transaction that produced
// it and the output index within that transaction
type OutputRef struct {
	TxId  lcommon.Blake2b256
	Index uint32
}

// MintedAsset is one entry in a transaction's mint field
type MintedAsset struct {
	Asset    AssetID
	Quantity int64
}

// IssuanceValidator decides whether the one-time mint of the state token
// is legal. The designated genesis output reference can be consumed at
// most once across the ledger's history, so at most one successful
// issuance can ever reference it.
type IssuanceValidator struct {
	Asset      AssetID
	GenesisRef OutputRef
}

// ValidateIssuance returns true if the transaction mints exactly one
// unit of the designated asset and nothing else, and consumes the
// designated genesis output. Like the transition validator, this is a
// pure predicate with no side effects.
func (v IssuanceValidator) ValidateIssuance(
	consumed []OutputRef,
	minted []MintedAsset,
) bool {
	if len(minted) != 1 {
		return false
	}
	if minted[0].Asset != v.Asset {
		return false
	}
	if minted[0].Quantity != 1 {
		return false
	}
	return slices.Contains(consumed, v.GenesisRef)
}

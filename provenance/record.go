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
	"fmt"
	"slices"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// KeyHash identifies a participant (manufacturer, custodian) by the
// Blake2b-224 hash of their verification key
type KeyHash = lcommon.Blake2b224

// Record is the tracked provenance entity carried as a datum on the
// item's ledger output. It is an immutable snapshot: validators compare
// a current and a proposed Record and never modify either.
//
// Manufacturer, MintedAt, ExpiresAt, and Photos are set once at issuance
// and frozen for the lifetime of the record. OwnerHistory and Comments
// are append-only logs.
type Record struct {
	Manufacturer KeyHash
	MintedAt     uint64
	ExpiresAt    uint64
	Photos       []string
	CurrentOwner KeyHash
	OwnerHistory []KeyHash
	Comments     []string
}

// recordWire is the CBOR wire form of a Record. Hashes are carried as
// raw byte strings to match the on-chain datum encoding.
type recordWire struct {
	cbor.StructAsArray
	Manufacturer []byte
	MintedAt     uint64
	ExpiresAt    uint64
	Photos       []string
	CurrentOwner []byte
	OwnerHistory [][]byte
	Comments     []string
}

// RecordFromCbor decodes a Record from its datum wire form
func RecordFromCbor(data []byte) (Record, error) {
	var tmp recordWire
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return Record{}, fmt.Errorf("decode record datum: %w", err)
	}
	if len(tmp.Manufacturer) != 28 {
		return Record{}, fmt.Errorf(
			"invalid manufacturer hash length: %d",
			len(tmp.Manufacturer),
		)
	}
	if len(tmp.CurrentOwner) != 28 {
		return Record{}, fmt.Errorf(
			"invalid current owner hash length: %d",
			len(tmp.CurrentOwner),
		)
	}
	ret := Record{
		Manufacturer: lcommon.NewBlake2b224(tmp.Manufacturer),
		MintedAt:     tmp.MintedAt,
		ExpiresAt:    tmp.ExpiresAt,
		Photos:       tmp.Photos,
		CurrentOwner: lcommon.NewBlake2b224(tmp.CurrentOwner),
		Comments:     tmp.Comments,
	}
	ret.OwnerHistory = make([]KeyHash, 0, len(tmp.OwnerHistory))
	for _, owner := range tmp.OwnerHistory {
		if len(owner) != 28 {
			return Record{}, fmt.Errorf(
				"invalid owner history hash length: %d",
				len(owner),
			)
		}
		ret.OwnerHistory = append(
			ret.OwnerHistory,
			lcommon.NewBlake2b224(owner),
		)
	}
	return ret, nil
}

// Cbor returns the datum wire form of the record
func (r Record) Cbor() ([]byte, error) {
	tmp := recordWire{
		Manufacturer: r.Manufacturer.Bytes(),
		MintedAt:     r.MintedAt,
		ExpiresAt:    r.ExpiresAt,
		Photos:       r.Photos,
		CurrentOwner: r.CurrentOwner.Bytes(),
		Comments:     r.Comments,
	}
	for _, owner := range r.OwnerHistory {
		tmp.OwnerHistory = append(tmp.OwnerHistory, owner.Bytes())
	}
	return cbor.Encode(&tmp)
}

// Equal returns true if both records are structurally identical
func (r Record) Equal(o Record) bool {
	return r.sameFrozenFields(o) &&
		r.CurrentOwner == o.CurrentOwner &&
		slices.Equal(r.OwnerHistory, o.OwnerHistory) &&
		slices.Equal(r.Comments, o.Comments)
}

// sameFrozenFields returns true if the fields that are immutable for the
// lifetime of the record are identical in both snapshots
func (r Record) sameFrozenFields(o Record) bool {
	return r.Manufacturer == o.Manufacturer &&
		r.MintedAt == o.MintedAt &&
		r.ExpiresAt == o.ExpiresAt &&
		slices.Equal(r.Photos, o.Photos)
}

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
)

// SignerSet is the set of key hashes that signed the transaction being
// validated. The host boundary is responsible for having verified the
// signatures cryptographically; the validator only answers whether the
// right key is among them.
type SignerSet map[KeyHash]struct{}

// NewSignerSet builds a SignerSet from a list of key hashes
func NewSignerSet(signers ...KeyHash) SignerSet {
	ret := make(SignerSet, len(signers))
	for _, signer := range signers {
		ret[signer] = struct{}{}
	}
	return ret
}

// Has returns true if the given key hash is a member of the set
func (s SignerSet) Has(keyHash KeyHash) bool {
	_, ok := s[keyHash]
	return ok
}

// TokenObservation carries the observed unit counts of the designated
// state token at the consumed and continuing ledger positions. The host
// boundary counts them; the validator only checks both are exactly one.
type TokenObservation struct {
	Consumed   uint64
	Continuing uint64
}

// TransitionValidator decides whether a proposed record transition is
// legal. It is a pure predicate: stateless, deterministic, and free of
// side effects. A false return is a normal business-rule rejection, not
// a fault.
type TransitionValidator struct{}

// Validate returns true if the transition from current to proposed under
// the given action is legal. All conditions are conjunctive:
//   - the current custodian signed the transaction
//   - exactly one unit of the state token accompanies the consumed and
//     the continuing position (the badge is neither duplicated nor
//     destroyed)
//   - the action-specific field invariants hold
func (TransitionValidator) Validate(
	current Record,
	action Action,
	proposed Record,
	signers SignerSet,
	tokens TokenObservation,
) bool {
	if !signers.Has(current.CurrentOwner) {
		return false
	}
	if tokens.Consumed != 1 || tokens.Continuing != 1 {
		return false
	}
	switch action.(type) {
	case CommentAction:
		return validCommentTransition(current, proposed)
	case TransferAction:
		return validTransferTransition(current, proposed)
	}
	// nil or unrecognized action
	return false
}

// validCommentTransition checks the field invariants for a comment
// action: everything except the comment log is identical, and the
// comment log grows by exactly one trailing entry. This holds for the
// first comment as well: an empty proposed comment log always fails the
// length relation, and an empty current log is simply a zero-length
// prefix.
func validCommentTransition(current, proposed Record) bool {
	if !current.sameFrozenFields(proposed) {
		return false
	}
	if proposed.CurrentOwner != current.CurrentOwner {
		return false
	}
	if !slices.Equal(proposed.OwnerHistory, current.OwnerHistory) {
		return false
	}
	if len(proposed.Comments) != len(current.Comments)+1 {
		return false
	}
	return slices.Equal(
		proposed.Comments[:len(current.Comments)],
		current.Comments,
	)
}

// validTransferTransition checks the field invariants for a custody
// transfer: frozen fields and comments are identical, the owner history
// grows by exactly one entry, and that entry is the new custodian. The
// history carries the full custody chain with the current holder as its
// last entry, so appending the new custodian preserves the previous
// holder as the prior entry. No-op transfers are forbidden.
func validTransferTransition(current, proposed Record) bool {
	if !current.sameFrozenFields(proposed) {
		return false
	}
	if !slices.Equal(proposed.Comments, current.Comments) {
		return false
	}
	prevLen := len(current.OwnerHistory)
	if len(proposed.OwnerHistory) != prevLen+1 {
		return false
	}
	if !slices.Equal(proposed.OwnerHistory[:prevLen], current.OwnerHistory) {
		return false
	}
	if proposed.OwnerHistory[prevLen] != proposed.CurrentOwner {
		return false
	}
	return proposed.CurrentOwner != current.CurrentOwner
}

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

// Action is the requested transition kind. It is a closed set: only
// CommentAction and TransferAction implement it, and the validator
// switches over both without a catch-all so that any future variant
// must be handled explicitly.
type Action interface {
	isAction()
}

// CommentAction appends a single comment to the record
type CommentAction struct{}

func (CommentAction) isAction() {}

// TransferAction hands custody of the record to a new owner
type TransferAction struct{}

func (TransferAction) isAction() {}

// ActionFromString maps an action name to its Action value. This is
// used at the host boundary (API requests, CLI input) where the action
// arrives as a string.
func ActionFromString(name string) (Action, bool) {
	switch name {
	case "comment":
		return CommentAction{}, true
	case "transfer":
		return TransferAction{}, true
	default:
		return nil, false
	}
}

// ActionString returns the wire name for an action
func ActionString(action Action) string {
	switch action.(type) {
	case CommentAction:
		return "comment"
	case TransferAction:
		return "transfer"
	}
	return ""
}

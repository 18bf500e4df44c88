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

package models

import (
	"time"
)

// MigrateModels is the list of model types passed to AutoMigrate on
// database startup
var MigrateModels = []any{
	&Transition{},
}

// Transition is one accepted record transition in the audit log
type Transition struct {
	ID            uint   `gorm:"primarykey"`
	TxId          string `gorm:"uniqueIndex;size:64"`
	Action        string `gorm:"index"`
	PreviousOwner string `gorm:"index;size:56"`
	NewOwner      string `gorm:"index;size:56"`
	CommentCount  uint
	CreatedAt     time.Time
}

func (Transition) TableName() string {
	return "transition"
}

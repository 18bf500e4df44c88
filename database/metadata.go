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

package database

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/curio/database/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MetadataStore holds the queryable audit log of accepted transitions.
// Uses an in-memory SQLite database if dataDir is empty.
type MetadataStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewMetadataStore creates a metadata store. Uses an in-memory database
// when no data directory is specified, useful for testing.
func NewMetadataStore(
	dataDir string,
	logger *slog.Logger,
) (*MetadataStore, error) {
	var metadataDb *gorm.DB
	var err error
	if dataDir == "" {
		// cache=shared allows multiple connections to share the same in-memory database
		metadataDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		metadataDbPath := filepath.Join(dataDir, "metadata.sqlite")
		// WAL journal mode, disable sync on write
		metadataConnOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)"
		metadataDb, err = gorm.Open(
			sqlite.Open(
				fmt.Sprintf("file:%s?%s", metadataDbPath, metadataConnOpts),
			),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	}
	db := &MetadataStore{
		db:     metadataDb,
		logger: logger,
	}
	// Create table schemas
	for _, model := range models.MigrateModels {
		db.logger.Debug(
			fmt.Sprintf("creating table: %#v", model),
			"component", "database",
		)
		if err := db.db.AutoMigrate(model); err != nil {
			return db, err
		}
	}
	return db, nil
}

// DB returns the underlying gorm DB handle
func (m *MetadataStore) DB() *gorm.DB {
	return m.db
}

// AddTransition appends an accepted transition to the audit log
func (m *MetadataStore) AddTransition(t *models.Transition) error {
	if result := m.db.Create(t); result.Error != nil {
		return result.Error
	}
	return nil
}

// TransitionByTxId looks up a transition by its transaction ID
func (m *MetadataStore) TransitionByTxId(
	txId string,
) (models.Transition, error) {
	var ret models.Transition
	result := m.db.Where("tx_id = ?", txId).First(&ret)
	return ret, result.Error
}

// RecentTransitions returns the most recent transitions, newest first
func (m *MetadataStore) RecentTransitions(
	limit int,
) ([]models.Transition, error) {
	var ret []models.Transition
	result := m.db.Order("id DESC").Limit(limit).Find(&ret)
	return ret, result.Error
}

// TransitionsByOwner returns all transitions where the given key hash
// became the record's custodian
func (m *MetadataStore) TransitionsByOwner(
	owner string,
) ([]models.Transition, error) {
	var ret []models.Transition
	result := m.db.Where("new_owner = ?", owner).
		Order("id ASC").
		Find(&ret)
	return ret, result.Error
}

// TransitionCount returns the total number of accepted transitions
func (m *MetadataStore) TransitionCount() (int64, error) {
	var ret int64
	result := m.db.Model(&models.Transition{}).Count(&ret)
	return ret, result.Error
}

// Close shuts down the underlying database connection
func (m *MetadataStore) Close() error {
	sqlDb, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}

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

	badger "github.com/dgraph-io/badger/v4"
)

// ErrBlobNotFound is returned when a requested key does not exist in
// the blob store
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore holds raw datum CBOR for accepted transitions, keyed by
// transaction ID. It uses an in-memory badger instance when no data
// directory is configured.
type BlobStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBlobStore creates a blob store. Uses in-memory storage if dataDir
// is empty.
func NewBlobStore(
	dataDir string,
	logger *slog.Logger,
) (*BlobStore, error) {
	var blobDb *badger.DB
	var err error
	if dataDir == "" {
		badgerOpts := badger.DefaultOptions("").
			WithLogger(NewBadgerLogger(logger)).
			// The default INFO logging is a bit verbose
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true)
		blobDb, err = badger.Open(badgerOpts)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		blobDir := filepath.Join(dataDir, "blob")
		badgerOpts := badger.DefaultOptions(blobDir).
			WithLogger(NewBadgerLogger(logger)).
			WithLoggingLevel(badger.WARNING)
		blobDb, err = badger.Open(badgerOpts)
		if err != nil {
			return nil, err
		}
	}
	return &BlobStore{
		db:     blobDb,
		logger: logger,
	}, nil
}

func datumBlobKey(txId string) []byte {
	return fmt.Appendf(nil, "d%s", txId)
}

// PutDatum stores the raw datum CBOR for the given transaction ID
func (b *BlobStore) PutDatum(txId string, datum []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(datumBlobKey(txId), datum)
	})
}

// GetDatum retrieves the raw datum CBOR for the given transaction ID
func (b *BlobStore) GetDatum(txId string) ([]byte, error) {
	var ret []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(datumBlobKey(txId))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBlobNotFound
			}
			return err
		}
		ret, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Close shuts down the underlying badger instance
func (b *BlobStore) Close() error {
	return b.db.Close()
}

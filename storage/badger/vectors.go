// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/storage"
)

// VectorCache implements storage.VectorCache using BadgerDB.
type VectorCache struct {
	backend *Backend
}

var _ storage.VectorCache = (*VectorCache)(nil)

func NewVectorCache(backend *Backend) *VectorCache {
	return &VectorCache{backend: backend}
}

func (c *VectorCache) GetVectors(ctx context.Context, keys ...core.ID) (map[core.ID][]float32, error) {
	found := make(map[core.ID][]float32, len(keys))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeVectorKey(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				found[key] = vector
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (c *VectorCache) PutVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		for key, vector := range vectors {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := storage.MarshalVector(vector)
			if err != nil {
				return err
			}
			if err := tx.Set(makeVectorKey(key), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

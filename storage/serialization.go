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

package storage

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/newsflow/core"
	"github.com/vmihailenco/msgpack/v5"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(id), nil
}

// MarshalRawArticle serializes a raw payload with msgpack. Map keys are
// sorted so equal payloads always produce equal bytes.
func MarshalRawArticle(raw core.RawArticle) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(map[string]any(raw)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return buf.Bytes(), nil
}

// UnmarshalRawArticle deserializes a raw payload.
func UnmarshalRawArticle(data []byte) (core.RawArticle, error) {
	var raw map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.RawArticle(raw), nil
}

// MarshalVector serializes an embedding vector using msgpack.
func MarshalVector(vector []float32) ([]byte, error) {
	data, err := msgpack.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalVector deserializes an embedding vector.
func UnmarshalVector(data []byte) ([]float32, error) {
	var vector []float32
	if err := msgpack.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return vector, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
// Layout: pipeline (string), processed (varint), last published and updated
// at (varint unix micro, 0 for the zero time).
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	published := unixMicro(checkpoint.LastPublished)
	updated := unixMicro(checkpoint.UpdatedAt)

	size := ord.String.Size(checkpoint.Pipeline) +
		varint.Uint64.Size(checkpoint.Processed) +
		varint.Int64.Size(published) +
		varint.Int64.Size(updated)

	buf := make([]byte, size)
	n := ord.String.Marshal(checkpoint.Pipeline, buf)
	n += varint.Uint64.Marshal(checkpoint.Processed, buf[n:])
	n += varint.Int64.Marshal(published, buf[n:])
	varint.Int64.Marshal(updated, buf[n:])
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	var (
		checkpoint core.Checkpoint
		off, n     int
		err        error
	)

	if checkpoint.Pipeline, n, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: pipeline: %w", ErrSerializationFailed, err)
	}
	off += n

	if checkpoint.Processed, n, err = varint.Uint64.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: processed: %w", ErrSerializationFailed, err)
	}
	off += n

	var published, updated int64
	if published, n, err = varint.Int64.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: last published: %w", ErrSerializationFailed, err)
	}
	off += n

	if updated, _, err = varint.Int64.Unmarshal(data[off:]); err != nil {
		return nil, fmt.Errorf("%w: updated at: %w", ErrSerializationFailed, err)
	}

	checkpoint.LastPublished = fromUnixMicro(published)
	checkpoint.UpdatedAt = fromUnixMicro(updated)
	return &checkpoint, nil
}

func unixMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromUnixMicro(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

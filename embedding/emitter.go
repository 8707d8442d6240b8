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

package embedding

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// Emitter receives embedded documents.
type Emitter interface {
	Emit(ctx context.Context, docs []*Document) error
}

// EmitterFunc adapts a function to an Emitter.
type EmitterFunc func(ctx context.Context, docs []*Document) error

func (f EmitterFunc) Emit(ctx context.Context, docs []*Document) error {
	return f(ctx, docs)
}

// JSONEmitter writes one JSON object per document per line.
type JSONEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var _ Emitter = (*JSONEmitter)(nil)

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{enc: json.NewEncoder(w)}
}

func (e *JSONEmitter) Emit(ctx context.Context, docs []*Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

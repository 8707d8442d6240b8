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


package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/newsflow/core"
)

// ErrUnsupportedFormat is returned when input is neither a JSON array nor JSON lines.
var ErrUnsupportedFormat = errors.New("unsupported seed format")

// LoadFile reads payloads from path. See Load for the accepted formats.
func LoadFile(path string) (core.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	payloads, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return payloads, nil
}

// Load reads payloads from r. The input is a JSON array of articles, a JSON
// array of batches (arrays of articles), or one article object per line.
// Batches are flattened in order.
func Load(r io.Reader) (core.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return flatten(items)
	case '{':
		return decodeLines(trimmed)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func flatten(items []any) (core.RawMessage, error) {
	var out core.RawMessage
	for i, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, core.RawArticle(v))
		case []any:
			batch, err := flatten(v)
			if err != nil {
				return nil, fmt.Errorf("batch %d: %w", i, err)
			}
			out = append(out, batch...)
		default:
			return nil, fmt.Errorf("%w: element %d is %T", ErrUnsupportedFormat, i, item)
		}
	}
	return out, nil
}

func decodeLines(data []byte) (core.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var out core.RawMessage
	for {
		var payload map[string]any
		err := dec.Decode(&payload)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(out), err)
		}
		out = append(out, core.RawArticle(payload))
	}
}

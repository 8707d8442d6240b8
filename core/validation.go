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

package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Schema field names. These are the keys a raw payload is read from.
const (
	FieldID        = "id"
	FieldHeadline  = "headline"
	FieldSummary   = "summary"
	FieldAuthor    = "author"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldURL       = "url"
	FieldContent   = "content"
	FieldSymbols   = "symbols"
	FieldSource    = "source"
)

// ParseArticle coerces a raw payload into a NewsArticle and validates it.
//
// Accepted encodings:
//   - id: any Go integer kind, a whole float64 (JSON numbers) or json.Number
//   - timestamps: time.Time or an RFC 3339 string
//   - symbols: []string or []any holding only strings
//
// Unknown keys are ignored. A JSON null is treated as an absent field.
// Every returned error wraps ErrInvalidArticle and names the failing field.
func ParseArticle(raw RawArticle) (*NewsArticle, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: payload is nil", ErrInvalidArticle)
	}

	var (
		article NewsArticle
		err     error
	)

	if article.ID, err = idField(raw, FieldID); err != nil {
		return nil, fieldError(FieldID, err)
	}
	if article.Headline, err = stringField(raw, FieldHeadline, true); err != nil {
		return nil, fieldError(FieldHeadline, err)
	}
	if article.Summary, err = stringField(raw, FieldSummary, false); err != nil {
		return nil, fieldError(FieldSummary, err)
	}
	if article.Author, err = stringField(raw, FieldAuthor, false); err != nil {
		return nil, fieldError(FieldAuthor, err)
	}
	if article.CreatedAt, err = timeField(raw, FieldCreatedAt, true); err != nil {
		return nil, fieldError(FieldCreatedAt, err)
	}
	if article.UpdatedAt, err = timeField(raw, FieldUpdatedAt, false); err != nil {
		return nil, fieldError(FieldUpdatedAt, err)
	}
	if article.URL, err = stringField(raw, FieldURL, false); err != nil {
		return nil, fieldError(FieldURL, err)
	}
	if article.Content, err = stringField(raw, FieldContent, false); err != nil {
		return nil, fieldError(FieldContent, err)
	}
	if article.Symbols, err = symbolsField(raw, FieldSymbols); err != nil {
		return nil, fieldError(FieldSymbols, err)
	}
	if article.Source, err = stringField(raw, FieldSource, true); err != nil {
		return nil, fieldError(FieldSource, err)
	}

	if err := ValidateArticle(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

// ValidateArticle validates a NewsArticle according to domain rules.
//
// Validation rules:
//   - ID must be positive
//   - Headline and Source must not be blank
//   - CreatedAt must be set
//   - UpdatedAt, when set, must not precede CreatedAt
func ValidateArticle(article *NewsArticle) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}
	if article.ID <= 0 {
		return fieldError(FieldID, ErrInvalidID)
	}
	if strings.TrimSpace(article.Headline) == "" {
		return fieldError(FieldHeadline, ErrEmptyHeadline)
	}
	if strings.TrimSpace(article.Source) == "" {
		return fieldError(FieldSource, ErrEmptySource)
	}
	if article.CreatedAt.IsZero() {
		return fieldError(FieldCreatedAt, ErrInvalidTimestamp)
	}
	if !article.UpdatedAt.IsZero() && article.UpdatedAt.Before(article.CreatedAt) {
		return fieldError(FieldUpdatedAt, fmt.Errorf("%w: precedes %s", ErrInvalidTimestamp, FieldCreatedAt))
	}
	return nil
}

// PublishedAt extracts the publication timestamp from a raw payload without
// validating the rest of it.
func PublishedAt(raw RawArticle) (time.Time, error) {
	ts, err := timeField(raw, FieldCreatedAt, true)
	if err != nil {
		return time.Time{}, fieldError(FieldCreatedAt, err)
	}
	return ts, nil
}

func fieldError(field string, err error) error {
	return fmt.Errorf("%w: field %q: %w", ErrInvalidArticle, field, err)
}

func lookup(raw RawArticle, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func stringField(raw RawArticle, key string, required bool) (string, error) {
	v, ok := lookup(raw, key)
	if !ok {
		if required {
			return "", ErrMissingField
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: want string, got %T", ErrInvalidFieldType, v)
	}
	return s, nil
}

func idField(raw RawArticle, key string) (int64, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return 0, ErrMissingField
	}

	var id int64
	switch n := v.(type) {
	case int:
		id = int64(n)
	case int8:
		id = int64(n)
	case int16:
		id = int64(n)
	case int32:
		id = int64(n)
	case int64:
		id = n
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, ErrInvalidID
		}
		id = int64(n)
	case uint8:
		id = int64(n)
	case uint16:
		id = int64(n)
	case uint32:
		id = int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0, ErrInvalidID
		}
		id = int64(n)
	case float32:
		return wholeFloat(float64(n))
	case float64:
		return wholeFloat(n)
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidID, err)
		}
		id = parsed
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrInvalidFieldType, v)
	}
	return id, nil
}

// wholeFloat accepts JSON numbers that carry an integral value.
func wholeFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidID, f)
	}
	return int64(f), nil
}

func timeField(raw RawArticle, key string, required bool) (time.Time, error) {
	v, ok := lookup(raw, key)
	if !ok {
		if required {
			return time.Time{}, ErrMissingField
		}
		return time.Time{}, nil
	}

	switch t := v.(type) {
	case time.Time:
		if t.IsZero() && required {
			return time.Time{}, ErrInvalidTimestamp
		}
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidTimestamp, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("%w: want timestamp, got %T", ErrInvalidFieldType, v)
	}
}

func symbolsField(raw RawArticle, key string) ([]string, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return nil, nil
	}

	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d: want string, got %T", ErrInvalidFieldType, i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: want list of strings, got %T", ErrInvalidFieldType, v)
	}
}

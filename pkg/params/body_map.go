// Copyright (C) 2026 UniPay Project
//
// This file is part of unipay-go.
//
// unipay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// unipay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with unipay-go.  If not, see <https://www.gnu.org/licenses/>.

package params

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BodyMap is an ordered key/value container used to build request parameters
// and to hold parsed notification fields. Insertion order is preserved.
//
// Set silently drops nil and empty-string values, so callers never need to
// guard optional fields. A BodyMap is not safe for concurrent use; it is
// meant to live for a single request or notification.
type BodyMap struct {
	keys   []string
	values map[string]any
}

// NewBodyMap creates an empty BodyMap.
func NewBodyMap() *BodyMap {
	return &BodyMap{values: make(map[string]any)}
}

// Set stores value under key unless value is nil or an empty string, in
// which case the map is left unchanged (an earlier value for key survives;
// only Remove removes). It returns the map itself to permit chained calls:
//
//	bm := params.NewBodyMap().
//	    Set("out_trade_no", "20260825001").
//	    Set("total_amount", "0.01").
//	    Set("subject", "")  // dropped
func (bm *BodyMap) Set(key string, value any) *BodyMap {
	if value == nil {
		return bm
	}
	if s, ok := value.(string); ok && s == "" {
		return bm
	}
	if _, exists := bm.values[key]; !exists {
		bm.keys = append(bm.keys, key)
	}
	bm.values[key] = value
	return bm
}

// Get returns the stored value for key, or def when the key is absent.
func (bm *BodyMap) Get(key string, def any) any {
	if v, ok := bm.values[key]; ok {
		return v
	}
	return def
}

// GetString returns the stored value for key rendered as text, or the empty
// string when the key is absent.
func (bm *BodyMap) GetString(key string) string {
	v, ok := bm.values[key]
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Remove deletes key from the map. Removing an absent key is a no-op.
func (bm *BodyMap) Remove(key string) *BodyMap {
	if _, ok := bm.values[key]; !ok {
		return bm
	}
	delete(bm.values, key)
	for i, k := range bm.keys {
		if k == key {
			bm.keys = append(bm.keys[:i], bm.keys[i+1:]...)
			break
		}
	}
	return bm
}

// Contains reports whether key is present.
func (bm *BodyMap) Contains(key string) bool {
	_, ok := bm.values[key]
	return ok
}

// Clear removes all entries and resets insertion order.
func (bm *BodyMap) Clear() *BodyMap {
	bm.keys = nil
	bm.values = make(map[string]any)
	return bm
}

// Len returns the number of stored entries.
func (bm *BodyMap) Len() int {
	return len(bm.keys)
}

// Keys returns the stored keys in insertion order. The returned slice is a
// copy and may be modified by the caller.
func (bm *BodyMap) Keys() []string {
	out := make([]string, len(bm.keys))
	copy(out, bm.keys)
	return out
}

// Update copies every entry of other into bm, preserving other's insertion
// order for keys bm has not seen before.
func (bm *BodyMap) Update(other *BodyMap) *BodyMap {
	if other == nil {
		return bm
	}
	for _, k := range other.keys {
		bm.Set(k, other.values[k])
	}
	return bm
}

// ToMap returns a plain map view of the entries. Iterate Keys() when
// insertion order matters.
func (bm *BodyMap) ToMap() map[string]any {
	out := make(map[string]any, len(bm.values))
	for k, v := range bm.values {
		out[k] = v
	}
	return out
}

// ToStringMap returns the entries with every value rendered as text, in a
// plain map. This is the view handed to notification callbacks.
func (bm *BodyMap) ToStringMap() map[string]string {
	out := make(map[string]string, len(bm.values))
	for k, v := range bm.values {
		out[k] = Stringify(v)
	}
	return out
}

// ToJSON serializes the entries as a UTF-8 JSON object, preserving insertion
// order. Nested BodyMap values serialize as nested objects.
func (bm *BodyMap) ToJSON() (string, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range bm.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return "", err
		}
		sb.Write(kb)
		sb.WriteByte(':')
		v := bm.values[k]
		if nested, ok := v.(*BodyMap); ok {
			nj, err := nested.ToJSON()
			if err != nil {
				return "", err
			}
			sb.WriteString(nj)
			continue
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		sb.Write(vb)
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// ToQuery serializes the entries as key=value pairs joined by "&" in
// insertion order, with values percent-encoded per RFC 3986. This is the
// transport encoding; it is distinct from the signing text, which is built
// by the canonical package.
func (bm *BodyMap) ToQuery() string {
	var sb strings.Builder
	for i, k := range bm.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escapeRFC3986(k))
		sb.WriteByte('=')
		sb.WriteString(escapeRFC3986(Stringify(bm.values[k])))
	}
	return sb.String()
}

// escapeRFC3986 percent-encodes s, using %20 rather than '+' for spaces.
func escapeRFC3986(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Stringify renders a stored value as the text form used for query strings
// and signing. Numbers render without exponent notation; nested maps render
// as JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case *BodyMap:
		s, err := t.ToJSON()
		if err != nil {
			return ""
		}
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

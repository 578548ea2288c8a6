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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyMap_SetGet(t *testing.T) {
	bm := NewBodyMap().
		Set("out_trade_no", "20260825001").
		Set("total_amount", "0.01")

	assert.Equal(t, 2, bm.Len())
	assert.Equal(t, "20260825001", bm.GetString("out_trade_no"))
	assert.Equal(t, "fallback", bm.Get("missing", "fallback"))
	assert.True(t, bm.Contains("total_amount"))
	assert.False(t, bm.Contains("subject"))
}

func TestBodyMap_SetDropsEmptyValues(t *testing.T) {
	bm := NewBodyMap().
		Set("a", "1").
		Set("b", "").
		Set("c", nil)

	// Empty-string and nil values never enter the map, so optional request
	// fields need no caller-side guards.
	assert.Equal(t, 1, bm.Len())
	assert.False(t, bm.Contains("b"))
	assert.False(t, bm.Contains("c"))

	// An empty re-Set does not erase an existing value.
	bm.Set("a", "")
	assert.Equal(t, "1", bm.GetString("a"))
}

func TestBodyMap_InsertionOrder(t *testing.T) {
	bm := NewBodyMap().
		Set("z", "1").
		Set("a", "2").
		Set("m", "3")

	assert.Equal(t, []string{"z", "a", "m"}, bm.Keys())

	// Re-setting an existing key keeps its original position.
	bm.Set("a", "9")
	assert.Equal(t, []string{"z", "a", "m"}, bm.Keys())
	assert.Equal(t, "9", bm.GetString("a"))
}

func TestBodyMap_Remove(t *testing.T) {
	bm := NewBodyMap().Set("a", "1").Set("b", "2")

	bm.Remove("a")
	assert.Equal(t, []string{"b"}, bm.Keys())

	// Removing an absent key is a no-op.
	bm.Remove("nope")
	assert.Equal(t, 1, bm.Len())
}

func TestBodyMap_Update(t *testing.T) {
	dst := NewBodyMap().Set("a", "1")
	src := NewBodyMap().Set("b", "2").Set("a", "overwritten")

	dst.Update(src)

	assert.Equal(t, []string{"a", "b"}, dst.Keys())
	assert.Equal(t, "overwritten", dst.GetString("a"))
	assert.Equal(t, "2", dst.GetString("b"))
}

func TestBodyMap_ToJSON(t *testing.T) {
	// Test Case 1: top-level order follows insertion order
	bm := NewBodyMap().
		Set("z", "last-first").
		Set("a", 1).
		Set("ok", true)
	s, err := bm.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last-first","a":1,"ok":true}`, s)

	// Test Case 2: nested BodyMap serializes as a nested object
	nested := NewBodyMap().Set("inner", "v")
	s, err = NewBodyMap().Set("outer", nested).ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"outer":{"inner":"v"}}`, s)
}

func TestBodyMap_ToQuery(t *testing.T) {
	bm := NewBodyMap().
		Set("return_url", "https://shop.example/done?x=1").
		Set("subject", "coffee & cake")

	q := bm.ToQuery()

	// Values are RFC 3986 escaped, %20 not '+', and order is insertion order.
	assert.Equal(t, "return_url=https%3A%2F%2Fshop.example%2Fdone%3Fx%3D1&subject=coffee%20%26%20cake", q)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "text", Stringify("text"))
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, "42", Stringify(int64(42)))
	assert.Equal(t, "0.01", Stringify(0.01))
	assert.Equal(t, "true", Stringify(true))
}

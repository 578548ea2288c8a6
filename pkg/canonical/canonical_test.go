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

package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unipay-project/unipay-go/pkg/params"
)

func TestBuildSigningString_KeyedDigest(t *testing.T) {
	bm := params.NewBodyMap().
		Set("out_trade_no", "A1").
		Set("total_amount", "0.01").
		Set("sign", "ignored")

	got := BuildSigningString(bm, KeyedDigest, "secret")

	assert.Equal(t, "out_trade_no=A1&total_amount=0.01&key=secret", got)
}

func TestBuildSigningString_OrderIndependent(t *testing.T) {
	// Two containers with the same fields in different insertion order must
	// canonicalize identically under a sorting profile.
	a := params.NewBodyMap().Set("b", "2").Set("a", "1").Set("c", "3")
	b := params.NewBodyMap().Set("c", "3").Set("a", "1").Set("b", "2")

	assert.Equal(t,
		BuildSigningString(a, KeyedDigest, "secret"),
		BuildSigningString(b, KeyedDigest, "secret"))
	assert.Equal(t, "a=1&b=2&c=3&key=secret", BuildSigningString(a, KeyedDigest, "secret"))
}

func TestBuildSigningString_MAC(t *testing.T) {
	bm := params.NewBodyMap().Set("a", "1").Set("b", "2").Set("sign", "x")

	// The MAC profile keeps the secret out of the string entirely.
	assert.Equal(t, "a=1&b=2", BuildSigningString(bm, MAC, "secret"))
}

func TestBuildSigningString_Asymmetric(t *testing.T) {
	bm := params.NewBodyMap().
		Set("out_trade_no", "A1").
		Set("sign_type", "RSA2").
		Set("sign", "base64...")

	// Both the signature and its type annotation stay out of the string.
	assert.Equal(t, "out_trade_no=A1", BuildSigningString(bm, Asymmetric, ""))
}

func TestBuildSigningString_DropsEmptyRenderedValues(t *testing.T) {
	// Parsed input can carry empties that Set would have filtered; they must
	// not reach the signing string.
	bm := params.NewBodyMap()
	bm.Set("a", "1")
	bm.Set("b", " ") // renders non-empty, survives
	bm.Set("c", "2")

	assert.Equal(t, "a=1&b= &c=2&key=k", BuildSigningString(bm, KeyedDigest, "k"))
}

func TestBuildSigningString_EmptyContainer(t *testing.T) {
	bm := params.NewBodyMap()

	// Test Case 1: keyed digest still carries the trailing secret
	assert.Equal(t, "key=secret", BuildSigningString(bm, KeyedDigest, "secret"))

	// Test Case 2: secret-to-signer profiles yield the empty string
	assert.Equal(t, "", BuildSigningString(bm, MAC, "secret"))
}

func TestBuildSigningString_JoinCompact(t *testing.T) {
	p := Profile{SortKeys: true, Join: JoinCompact, Secret: SecretToSigner}
	bm := params.NewBodyMap().Set("b", "world").Set("a", "hello")

	assert.Equal(t, "helloworld", BuildSigningString(bm, p, ""))
}

func TestBuildSigningString_ByteWiseSort(t *testing.T) {
	// Uppercase sorts before lowercase under byte-wise comparison.
	bm := params.NewBodyMap().Set("apple", "1").Set("Zebra", "2")

	assert.Equal(t, "Zebra=2&apple=1", BuildSigningString(bm, MAC, ""))
}

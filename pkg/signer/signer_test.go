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

package signer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

func TestMD5Signer(t *testing.T) {
	s := NewMD5Signer()
	assert.Equal(t, AlgorithmMD5, s.Algorithm())

	// Fixed vector: the keyed-digest signing text of a two-field request.
	sig, err := s.Sign("out_trade_no=A1&total_amount=0.01&key=secret")
	require.NoError(t, err)
	assert.Equal(t, "F0F8FA33DF77249D6F1A55C80F32FE44", sig)

	assert.True(t, s.Verify("out_trade_no=A1&total_amount=0.01&key=secret", sig))
	assert.False(t, s.Verify("out_trade_no=A2&total_amount=0.01&key=secret", sig))

	// Lowercase hex of the same digest is a different string and must fail:
	// signatures are compared as produced, uppercase.
	assert.False(t, s.Verify("out_trade_no=A1&total_amount=0.01&key=secret", "f0f8fa33df77249d6f1a55c80f32fe44"))
}

func TestHMACSHA256Signer(t *testing.T) {
	s, err := NewHMACSHA256Signer("secret")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmHMACSHA256, s.Algorithm())

	sig, err := s.Sign("out_trade_no=A1&total_amount=0.01")
	require.NoError(t, err)
	assert.Equal(t, "85144290FC24F638818135BD3D64CF4E07BE47633118C058EF5B8352D9DAE555", sig)
	assert.True(t, s.Verify("out_trade_no=A1&total_amount=0.01", sig))

	// A different key yields a different MAC over the same text.
	other, err := NewHMACSHA256Signer("other")
	require.NoError(t, err)
	assert.False(t, other.Verify("out_trade_no=A1&total_amount=0.01", sig))
}

func TestHMACSHA256Signer_EmptySecret(t *testing.T) {
	_, err := NewHMACSHA256Signer("")
	require.Error(t, err)

	var keyErr *payerr.InvalidKeyMaterialError
	assert.True(t, errors.As(err, &keyErr))
	assert.Equal(t, AlgorithmHMACSHA256, keyErr.Algorithm)
}

func TestSigner_MalformedSignatureText(t *testing.T) {
	// Verify never panics on garbage signature text, whatever the variant.
	md5s := NewMD5Signer()
	assert.False(t, md5s.Verify("content", "not-hex-at-all"))
	assert.False(t, md5s.Verify("content", ""))

	macs, err := NewHMACSHA256Signer("k")
	require.NoError(t, err)
	assert.False(t, macs.Verify("content", "短"))
}

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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

// HMACSHA256Signer implements the shared-secret MAC variant: uppercase hex
// HMAC-SHA256 of the canonical string, keyed with the channel secret. The
// secret never appears in the canonical string itself.
type HMACSHA256Signer struct {
	key []byte
}

// NewHMACSHA256Signer creates an HMACSHA256Signer keyed with secret. An
// empty secret is rejected at construction.
func NewHMACSHA256Signer(secret string) (*HMACSHA256Signer, error) {
	if secret == "" {
		return nil, &payerr.InvalidKeyMaterialError{
			Algorithm: AlgorithmHMACSHA256,
			Reason:    "empty MAC secret",
		}
	}
	return &HMACSHA256Signer{key: []byte(secret)}, nil
}

// Sign returns the uppercase hex HMAC-SHA256 of content.
func (s *HMACSHA256Signer) Sign(content string) (string, error) {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(content))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil))), nil
}

// Verify recomputes the MAC and compares in constant time.
func (s *HMACSHA256Signer) Verify(content, signature string) bool {
	expected, _ := s.Sign(content)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Algorithm returns AlgorithmHMACSHA256.
func (s *HMACSHA256Signer) Algorithm() string { return AlgorithmHMACSHA256 }

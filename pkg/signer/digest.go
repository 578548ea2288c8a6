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
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// MD5Signer implements the shared-secret digest variant: the signature is
// the uppercase hex MD5 of the canonical string. Channels using this variant
// fold their secret into the string during canonicalization
// (canonical.SecretQueryKey), so the signer hashes its input as-is.
type MD5Signer struct{}

// NewMD5Signer creates an MD5Signer.
func NewMD5Signer() *MD5Signer {
	return &MD5Signer{}
}

// Sign returns the uppercase hex MD5 digest of content.
func (s *MD5Signer) Sign(content string) (string, error) {
	sum := md5.Sum([]byte(content))
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

// Verify recomputes the digest and compares in constant time. Malformed
// signature text simply fails the comparison.
func (s *MD5Signer) Verify(content, signature string) bool {
	expected, _ := s.Sign(content)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Algorithm returns AlgorithmMD5.
func (s *MD5Signer) Algorithm() string { return AlgorithmMD5 }

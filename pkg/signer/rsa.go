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
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

// RSASigner implements the asymmetric variant: PKCS#1 v1.5 signatures,
// base64 encoded, over a SHA-1 digest (legacy "RSA" profile) or SHA-256
// digest ("RSA2" profile). The profile is chosen by algorithm identifier at
// construction, never inferred from the key.
//
// A signer built from only a public key verifies but cannot sign; one built
// from only a private key signs and verifies against the derived public key.
type RSASigner struct {
	alg  string
	hash stdcrypto.Hash
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

// NewRSASigner creates an RSASigner for alg (AlgorithmRSA or AlgorithmRSA2)
// from km.PrivateKey and/or km.PublicKey. Key text may be PEM or a bare
// base64 body without armor. All parse failures surface here as
// *payerr.InvalidKeyMaterialError, never at first Sign/Verify.
func NewRSASigner(alg string, km KeyMaterial) (*RSASigner, error) {
	var hash stdcrypto.Hash
	switch alg {
	case AlgorithmRSA:
		hash = stdcrypto.SHA1
	case AlgorithmRSA2:
		hash = stdcrypto.SHA256
	default:
		return nil, &payerr.UnsupportedAlgorithmError{Algorithm: alg}
	}

	s := &RSASigner{alg: alg, hash: hash}

	if km.PrivateKey == "" && km.PublicKey == "" {
		return nil, &payerr.InvalidKeyMaterialError{
			Algorithm: alg,
			Reason:    "neither private nor public key supplied",
		}
	}

	if km.PrivateKey != "" {
		priv, err := parsePrivateKey(km.PrivateKey)
		if err != nil {
			return nil, &payerr.InvalidKeyMaterialError{Algorithm: alg, Reason: "private key parse failed", Err: err}
		}
		s.priv = priv
		s.pub = &priv.PublicKey
	}

	if km.PublicKey != "" {
		pub, err := parsePublicKey(km.PublicKey)
		if err != nil {
			return nil, &payerr.InvalidKeyMaterialError{Algorithm: alg, Reason: "public key parse failed", Err: err}
		}
		s.pub = pub
	}

	return s, nil
}

// Sign signs content with the private key. Signatures are not guaranteed
// deterministic; callers compare by Verify, never by string equality.
func (s *RSASigner) Sign(content string) (string, error) {
	if s.priv == nil {
		return "", fmt.Errorf("%s signer has no private key", s.alg)
	}
	digest := s.digest(content)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.priv, s.hash, digest)
	if err != nil {
		return "", fmt.Errorf("%s signing failed: %w", s.alg, err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks signature against content under the public key. Malformed
// base64 or a wrong-length signature reports false, never an error.
func (s *RSASigner) Verify(content, signature string) bool {
	if s.pub == nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return rsa.VerifyPKCS1v15(s.pub, s.hash, s.digest(content), sig) == nil
}

// Algorithm returns the profile identifier ("RSA" or "RSA2").
func (s *RSASigner) Algorithm() string { return s.alg }

func (s *RSASigner) digest(content string) []byte {
	if s.hash == stdcrypto.SHA1 {
		sum := sha1.Sum([]byte(content))
		return sum[:]
	}
	sum := sha256.Sum256([]byte(content))
	return sum[:]
}

// parsePrivateKey accepts PKCS#1 or PKCS#8 private keys, PEM or bare base64.
// Provider consoles hand merchants the bare base64 body, so missing armor is
// repaired rather than rejected.
func parsePrivateKey(keyText string) (*rsa.PrivateKey, error) {
	der, err := decodeKeyText(keyText, "RSA PRIVATE KEY")
	if err != nil {
		return nil, err
	}
	if priv, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return priv, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("not a PKCS#1 or PKCS#8 private key: %w", err)
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not an RSA key")
	}
	return priv, nil
}

// parsePublicKey accepts PKIX or PKCS#1 public keys, PEM or bare base64.
func parsePublicKey(keyText string) (*rsa.PublicKey, error) {
	der, err := decodeKeyText(keyText, "PUBLIC KEY")
	if err != nil {
		return nil, err
	}
	if parsed, err := x509.ParsePKIXPublicKey(der); err == nil {
		pub, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not an RSA key")
		}
		return pub, nil
	}
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("not a PKIX or PKCS#1 public key: %w", err)
	}
	return pub, nil
}

// decodeKeyText extracts DER bytes from PEM text, or base64-decodes a bare
// key body when no armor is present.
func decodeKeyText(keyText, armorType string) ([]byte, error) {
	keyText = strings.TrimSpace(keyText)
	if !strings.Contains(keyText, "-----BEGIN") {
		keyText = "-----BEGIN " + armorType + "-----\n" + wrapBase64(keyText) + "-----END " + armorType + "-----"
	}
	block, _ := pem.Decode([]byte(keyText))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return block.Bytes, nil
}

// wrapBase64 re-flows a bare base64 body into 64-character PEM lines.
func wrapBase64(body string) string {
	body = strings.Join(strings.Fields(body), "")
	var sb strings.Builder
	for len(body) > 64 {
		sb.WriteString(body[:64])
		sb.WriteByte('\n')
		body = body[64:]
	}
	sb.WriteString(body)
	sb.WriteByte('\n')
	return sb.String()
}

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

// Built-in algorithm identifiers. Identifiers are case-sensitive.
const (
	// AlgorithmMD5 is the shared-secret MD5 digest used by WeChat legacy,
	// Saobei, and QQ wallet. The secret is folded into the canonical string
	// by the channel profile, not by the signer.
	AlgorithmMD5 = "MD5"

	// AlgorithmHMACSHA256 is the keyed HMAC-SHA256 MAC used by WeChat and
	// QQ wallet.
	AlgorithmHMACSHA256 = "HMAC-SHA256"

	// AlgorithmRSA is RSA PKCS#1 v1.5 over SHA-1, Alipay's legacy profile.
	AlgorithmRSA = "RSA"

	// AlgorithmRSA2 is RSA PKCS#1 v1.5 over SHA-256, Alipay's current
	// profile. Profile selection is configuration, not key shape: the same
	// PEM key signs under either.
	AlgorithmRSA2 = "RSA2"
)

// Signer signs a canonical string and verifies a (string, signature) pair.
// Callers never know which algorithm variant backs a given identifier.
//
// Sign is deterministic for the symmetric variants. Verify never panics or
// errors on malformed signature text; it reports false. Implementations are
// safe for concurrent use: key material is read-only after construction.
type Signer interface {
	// Sign produces the signature text for content.
	Sign(content string) (string, error)

	// Verify reports whether signature is valid for content.
	Verify(content, signature string) bool

	// Algorithm returns the identifier this signer was registered under.
	Algorithm() string
}

// KeyMaterial carries the key inputs a signer variant may need. Symmetric
// variants read Secret; asymmetric variants read PrivateKey and/or
// PublicKey, as PEM text or a bare base64 body without PEM armor.
//
// Loading key files from disk is the config collaborator's job; by the time
// KeyMaterial reaches a factory it holds the key text itself.
type KeyMaterial struct {
	Secret     string
	PrivateKey string
	PublicKey  string
}

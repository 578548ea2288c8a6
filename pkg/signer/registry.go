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
	"sort"
	"sync/atomic"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

// Factory builds a configured Signer from key material. A Factory validates
// the key material completely; a Signer it returns never fails later because
// of a bad key.
type Factory func(km KeyMaterial) (Signer, error)

// Registry maps algorithm identifiers to signer factories. Identifiers are
// case-sensitive and unique; registering an identifier twice replaces the
// prior entry.
//
// Registration swaps a whole copied map behind an atomic pointer, so
// concurrent readers never observe a partially constructed entry. Prefer
// passing a Registry into the call sites that need one and reserving
// Default() for the outermost assembly point.
type Registry struct {
	factories atomic.Pointer[map[string]Factory]
}

// NewRegistry creates a Registry pre-populated with the built-in algorithms
// (MD5, HMAC-SHA256, RSA, RSA2).
func NewRegistry() *Registry {
	r := &Registry{}
	m := map[string]Factory{
		AlgorithmMD5: func(KeyMaterial) (Signer, error) {
			return NewMD5Signer(), nil
		},
		AlgorithmHMACSHA256: func(km KeyMaterial) (Signer, error) {
			return NewHMACSHA256Signer(km.Secret)
		},
		AlgorithmRSA: func(km KeyMaterial) (Signer, error) {
			return NewRSASigner(AlgorithmRSA, km)
		},
		AlgorithmRSA2: func(km KeyMaterial) (Signer, error) {
			return NewRSASigner(AlgorithmRSA2, km)
		},
	}
	r.factories.Store(&m)
	return r
}

// Register adds or replaces the factory for identifier. Last write wins;
// this is how custom algorithms are added without modifying the core.
func (r *Registry) Register(identifier string, f Factory) {
	for {
		old := r.factories.Load()
		next := make(map[string]Factory, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[identifier] = f
		if r.factories.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Get builds a Signer for identifier from km. It fails with
// *payerr.UnsupportedAlgorithmError when identifier has no factory, and
// passes through the factory's *payerr.InvalidKeyMaterialError when the key
// material does not fit the variant.
func (r *Registry) Get(identifier string, km KeyMaterial) (Signer, error) {
	f, ok := (*r.factories.Load())[identifier]
	if !ok {
		return nil, &payerr.UnsupportedAlgorithmError{Algorithm: identifier}
	}
	return f(km)
}

// Algorithms returns the registered identifiers, sorted.
func (r *Registry) Algorithms() []string {
	m := *r.factories.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. It exists for the outermost
// assembly point; library code should accept a *Registry instead.
func Default() *Registry {
	return defaultRegistry
}

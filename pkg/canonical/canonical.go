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
	"sort"
	"strings"

	"github.com/unipay-project/unipay-go/pkg/params"
)

// Join selects how the surviving key/value pairs are assembled into the
// signing string.
type Join int

const (
	// JoinQuery joins pairs as "key=value&key=value".
	JoinQuery Join = iota

	// JoinCompact concatenates the values with no delimiter at all, the
	// convention of channels that sign a fixed field sequence.
	JoinCompact
)

// SecretPlacement selects where a channel's shared secret enters the
// signing process.
type SecretPlacement int

const (
	// SecretToSigner keeps the secret out of the signing string; the signer
	// receives it as key material (MAC key or private key).
	SecretToSigner SecretPlacement = iota

	// SecretQueryKey appends the secret to the joined string as
	// "&key=SECRET" before signing, the keyed-digest form convention.
	SecretQueryKey
)

// Profile is a channel's canonicalization policy: which fields never enter
// the signing string, whether the rest are sorted, how they are joined, and
// where the shared secret goes. Profiles are plain values; channel behavior
// is selected by table lookup, not by subtype.
type Profile struct {
	// Exclude lists field names dropped unconditionally. It always contains
	// the channel's signature field.
	Exclude []string

	// SortKeys sorts the surviving fields ascending by byte-wise key
	// comparison before joining. Byte-wise, not locale-aware, so every
	// implementation of the channel produces identical bytes.
	SortKeys bool

	// Join is the pair assembly format.
	Join Join

	// Secret is the shared-secret placement.
	Secret SecretPlacement
}

// Built-in profiles. KeyedDigest is the MD5-keyed form convention
// (WeChat legacy, Saobei, QQ): sorted k=v pairs with "&key=SECRET" appended.
// MAC is the HMAC form convention: the same string, secret fed only to the
// MAC. Asymmetric is the RSA form/JSON convention (Alipay): the same string,
// private key held by the signer; sign_type is excluded alongside sign.
var (
	KeyedDigest = Profile{
		Exclude:  []string{"sign"},
		SortKeys: true,
		Join:     JoinQuery,
		Secret:   SecretQueryKey,
	}
	MAC = Profile{
		Exclude:  []string{"sign"},
		SortKeys: true,
		Join:     JoinQuery,
		Secret:   SecretToSigner,
	}
	Asymmetric = Profile{
		Exclude:  []string{"sign", "sign_type"},
		SortKeys: true,
		Join:     JoinQuery,
		Secret:   SecretToSigner,
	}
)

// BuildSigningString assembles the canonical string a signer signs or
// verifies for the given container under profile p.
//
// Fields with empty rendered values are dropped even when present in the
// container: a container built by parsing untrusted input can carry empties
// the Set filter would have rejected, and they must not reach the string.
// secret is consulted only when p.Secret is SecretQueryKey.
func BuildSigningString(bm *params.BodyMap, p Profile, secret string) string {
	keys := bm.Keys()
	if p.SortKeys {
		sort.Strings(keys)
	}

	var sb strings.Builder
	for _, k := range keys {
		if excluded(p.Exclude, k) {
			continue
		}
		v := bm.GetString(k)
		if v == "" {
			continue
		}
		switch p.Join {
		case JoinCompact:
			sb.WriteString(v)
		default:
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}

	if p.Secret == SecretQueryKey {
		if sb.Len() > 0 && p.Join == JoinQuery {
			sb.WriteByte('&')
		}
		sb.WriteString("key=")
		sb.WriteString(secret)
	}
	return sb.String()
}

func excluded(exclude []string, key string) bool {
	for _, e := range exclude {
		if e == key {
			return true
		}
	}
	return false
}

// Package canonical builds the deterministic signing strings that payment
// channels sign and verify against.
//
// Every channel follows the same skeleton — drop the signature field and
// empty values, sort the rest, join, maybe fold in the shared secret — but
// differs in the details. Those details live in a Profile value so that the
// signing-string rules for a channel are data, not code:
//
//	bm := params.NewBodyMap().
//	    Set("out_trade_no", "A1").
//	    Set("total_amount", "0.01")
//
//	s := canonical.BuildSigningString(bm, canonical.KeyedDigest, "secret")
//	// "out_trade_no=A1&total_amount=0.01&key=secret"
//
// The string must be byte-identical on both ends of the protocol; a single
// misplaced field means an unverifiable payment. BuildSigningString is a
// pure function of its inputs and is insensitive to the container's
// insertion order under the sorted profiles.
package canonical

// Package signer implements the signature algorithms payment channels use
// over canonical strings, behind one interface.
//
// Three variants exist: a shared-secret digest (MD5), a shared-secret MAC
// (HMAC-SHA256), and an asymmetric signature (RSA PKCS#1 v1.5 with a legacy
// SHA-1 profile "RSA" and a modern SHA-256 profile "RSA2"). Callers select a
// variant by algorithm identifier through a Registry and never depend on
// which variant backs it:
//
//	reg := signer.NewRegistry()
//	s, err := reg.Get(signer.AlgorithmHMACSHA256, signer.KeyMaterial{Secret: apiKey})
//	if err != nil {
//	    return err // UnsupportedAlgorithmError or InvalidKeyMaterialError
//	}
//
//	sig, err := s.Sign(signingText)
//	ok := s.Verify(signingText, sig)
//
// Key material is validated entirely at construction: a bad PEM key fails
// Get, never a later Sign. Verify never panics on malformed signature text,
// and the symmetric variants compare in constant time.
//
// Custom algorithms are added by registration; registering an existing
// identifier replaces it:
//
//	reg.Register("SM3", func(km signer.KeyMaterial) (signer.Signer, error) {
//	    return newSM3Signer(km.Secret)
//	})
package signer

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

package payerr

import "fmt"

// FormatError is returned when a wire payload cannot be decoded into a
// parameter container (malformed form data, XML, or JSON, or an empty body).
type FormatError struct {
	// Channel identifies the payment channel whose format was expected
	Channel string

	// Reason describes what was wrong with the payload
	Reason string

	// Err is the underlying decode error, if any
	Err error
}

func (e *FormatError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("%s: invalid payload format: %s", e.Channel, e.Reason)
	}
	return "invalid payload format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// SignatureError is returned when a notification's signature field is absent
// or does not verify against the reconstructed canonical string.
type SignatureError struct {
	Channel string
	Reason  string
}

func (e *SignatureError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("%s: signature verification failed: %s", e.Channel, e.Reason)
	}
	return "signature verification failed: " + e.Reason
}

// UnsupportedAlgorithmError is returned by the signer registry when an
// algorithm identifier has no registered factory. Identifiers are
// case-sensitive: "md5" is not "MD5".
type UnsupportedAlgorithmError struct {
	Algorithm string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported signature algorithm: %q", e.Algorithm)
}

// InvalidKeyMaterialError is returned at signer construction when the
// supplied key material cannot be parsed into the shape the algorithm
// requires (for example a PEM parse failure for RSA keys). It always
// surfaces at construction time, never at first use.
type InvalidKeyMaterialError struct {
	Algorithm string
	Reason    string
	Err       error
}

func (e *InvalidKeyMaterialError) Error() string {
	return fmt.Sprintf("invalid key material for %s: %s", e.Algorithm, e.Reason)
}

func (e *InvalidKeyMaterialError) Unwrap() error { return e.Err }

// CallbackFailureError is returned when the caller-supplied notification
// callback reports a business failure or panics. The notification verifier
// still produces the channel's failure acknowledgement alongside it.
type CallbackFailureError struct {
	Channel string
	Reason  string
}

func (e *CallbackFailureError) Error() string {
	return fmt.Sprintf("%s: notification callback failed: %s", e.Channel, e.Reason)
}

// ConfigError is returned when a channel configuration is incomplete or a
// referenced credential file cannot be loaded.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
	}
	return "config: " + e.Reason
}

// NetworkError is returned by the HTTP client when a gateway request fails
// after retries are exhausted.
type NetworkError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway request failed (status %d): %s", e.StatusCode, e.Reason)
	}
	return "gateway request failed: " + e.Reason
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PaymentError carries a provider-reported business failure (a non-success
// result code in an otherwise well-formed gateway response).
type PaymentError struct {
	Code    string
	SubCode string
	Message string
}

func (e *PaymentError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

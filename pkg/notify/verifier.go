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

package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/payerr"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

// Callback receives the parsed, signature-verified notification fields and
// returns the business outcome. A false return means the caller could not
// process the payment and wants the provider to retry.
//
// Providers re-deliver the same notification after an acknowledgement
// timeout, so a Callback must be safe to invoke more than once for the same
// fields; the verifier performs no deduplication. A Callback should not
// panic for expected business conditions; a panic is recovered once at the
// verifier boundary and mapped to a CallbackFailureError.
type Callback func(fields map[string]string) bool

// Verifier runs the inbound-notification pipeline for one channel: parse
// raw bytes into a container, reconstruct the signing string, verify the
// signature, dispatch to the business callback, and translate the outcome
// into the channel's acknowledgement body.
//
// A Verifier holds no per-call state and is safe for concurrent use.
type Verifier struct {
	spec   ChannelSpec
	signer signer.Signer
	secret string
	log    *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger used for rejected notifications. The default
// is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.log = l
		}
	}
}

// NewVerifier creates a Verifier for channel using s to check signatures.
// secret is the channel shared secret for profiles that fold it into the
// signing string (WeChat/QQ/Saobei keyed digest); channels whose secret
// only feeds the signer pass "".
func NewVerifier(channel Channel, s signer.Signer, secret string, opts ...Option) (*Verifier, error) {
	spec, ok := Spec(channel)
	if !ok {
		return nil, &payerr.ConfigError{Key: "channel", Reason: fmt.Sprintf("unknown notification channel %q", channel)}
	}
	if s == nil {
		return nil, &payerr.ConfigError{Key: "signer", Reason: "nil signer"}
	}
	v := &Verifier{spec: spec, signer: s, secret: secret, log: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ContentType returns the acknowledgement content type the transport
// collaborator must send with the body returned by Process.
func (v *Verifier) ContentType() string { return v.spec.ContentType }

// Process runs one notification through the pipeline. It always returns an
// acknowledgement body for the provider; the error reports why a
// notification was rejected (FormatError, SignatureError,
// CallbackFailureError) and is for the caller's logging, never for the
// provider. The same raw bytes processed twice yield the same
// acknowledgement.
func (v *Verifier) Process(raw []byte, cb Callback) (ack string, err error) {
	// Received
	if len(bytes.TrimSpace(raw)) == 0 {
		err = &payerr.FormatError{Channel: string(v.spec.Channel), Reason: "empty notification body"}
		v.log.Warn("notification rejected", zap.String("channel", string(v.spec.Channel)), zap.Error(err))
		return v.spec.FailAck("empty body"), err
	}

	// Parsed
	fields, perr := v.parse(raw)
	if perr != nil {
		v.log.Warn("notification rejected", zap.String("channel", string(v.spec.Channel)), zap.Error(perr))
		return v.spec.FailAck("malformed payload"), perr
	}

	// Verified
	signature := fields.GetString(v.spec.SignField)
	if signature == "" {
		serr := &payerr.SignatureError{Channel: string(v.spec.Channel), Reason: "signature field missing"}
		v.log.Warn("notification rejected", zap.String("channel", string(v.spec.Channel)), zap.Error(serr))
		return v.spec.FailAck("missing signature"), serr
	}
	fields.Remove(v.spec.SignField)

	signingText := canonical.BuildSigningString(fields, v.spec.Profile, v.secret)
	if !v.signer.Verify(signingText, signature) {
		serr := &payerr.SignatureError{Channel: string(v.spec.Channel), Reason: "signature mismatch"}
		v.log.Warn("notification rejected", zap.String("channel", string(v.spec.Channel)), zap.Error(serr))
		return v.spec.FailAck("signature verification failed"), serr
	}

	// Dispatched
	if cb != nil {
		ok, cbErr := v.dispatch(cb, fields.ToStringMap())
		if cbErr != nil {
			v.log.Error("notification callback panicked", zap.String("channel", string(v.spec.Channel)), zap.Error(cbErr))
			return v.spec.FailAck("callback error"), cbErr
		}
		if !ok {
			cbErr = &payerr.CallbackFailureError{Channel: string(v.spec.Channel), Reason: "callback reported failure"}
			return v.spec.FailAck("business processing failed"), cbErr
		}
	}

	// Acknowledged
	return v.spec.SuccessAck(), nil
}

// dispatch invokes the callback, converting a panic into an error exactly
// once at this boundary. The provider must never see a transport fault for
// a caller-side bug.
func (v *Verifier) dispatch(cb Callback, fields map[string]string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &payerr.CallbackFailureError{
				Channel: string(v.spec.Channel),
				Reason:  fmt.Sprintf("callback panic: %v", r),
			}
		}
	}()
	return cb(fields), nil
}

// parse decodes raw into a parameter container using the channel's native
// wire format.
func (v *Verifier) parse(raw []byte) (*params.BodyMap, error) {
	switch v.spec.Format {
	case FormatXML:
		xm, err := params.ParseXML(string(raw), "")
		if err != nil {
			return nil, err
		}
		return xm.ToBodyMap(), nil

	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, &payerr.FormatError{Channel: string(v.spec.Channel), Reason: "invalid JSON", Err: err}
		}
		bm := params.NewBodyMap()
		for k, val := range obj {
			bm.Set(k, params.Stringify(val))
		}
		return bm, nil

	default: // FormatForm
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, &payerr.FormatError{Channel: string(v.spec.Channel), Reason: "invalid form data", Err: err}
		}
		bm := params.NewBodyMap()
		for k, vs := range values {
			if len(vs) > 0 {
				bm.Set(k, vs[0])
			}
		}
		return bm, nil
	}
}

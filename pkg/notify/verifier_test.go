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
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/payerr"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

const (
	testSecret = "secret"

	// MD5 of "out_trade_no=A1&total_amount=0.01&key=secret".
	testWechatSign = "F0F8FA33DF77249D6F1A55C80F32FE44"

	wechatValidXML = `<xml><out_trade_no>A1</out_trade_no><total_amount>0.01</total_amount><sign>` + testWechatSign + `</sign></xml>`

	wechatFailAckSigMismatch = `<xml><return_code>FAIL</return_code><return_msg>signature verification failed</return_msg></xml>`
	wechatSuccessAckBody     = `<xml><return_code>SUCCESS</return_code><return_msg>OK</return_msg></xml>`
)

func newWechatVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(ChannelWechat, signer.NewMD5Signer(), testSecret)
	require.NoError(t, err)
	return v
}

func TestNewVerifier(t *testing.T) {
	// Test Case 1: unknown channel is rejected at construction
	_, err := NewVerifier(Channel("stripe"), signer.NewMD5Signer(), "")
	require.Error(t, err)
	var cfgErr *payerr.ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	// Test Case 2: nil signer is rejected
	_, err = NewVerifier(ChannelWechat, nil, "")
	require.Error(t, err)

	// Test Case 3: every published channel constructs
	for _, ch := range Channels() {
		v, err := NewVerifier(ch, signer.NewMD5Signer(), testSecret)
		require.NoError(t, err, "channel %s", ch)
		assert.NotEmpty(t, v.ContentType())
	}
}

func TestProcess_WechatValid(t *testing.T) {
	v := newWechatVerifier(t)

	var got map[string]string
	ack, err := v.Process([]byte(wechatValidXML), func(fields map[string]string) bool {
		got = fields
		return true
	})

	require.NoError(t, err)
	assert.Equal(t, wechatSuccessAckBody, ack)

	// Callback sees the verified fields with the signature removed.
	require.NotNil(t, got)
	assert.Equal(t, "A1", got["out_trade_no"])
	assert.Equal(t, "0.01", got["total_amount"])
	assert.NotContains(t, got, "sign")
}

func TestProcess_WechatInvalidSignature(t *testing.T) {
	v := newWechatVerifier(t)

	tampered := `<xml><out_trade_no>A1</out_trade_no><total_amount>0.01</total_amount><sign>DEADBEEF</sign></xml>`

	invoked := false
	ack, err := v.Process([]byte(tampered), func(map[string]string) bool {
		invoked = true
		return true
	})

	// The callback must never see an unverified notification, and the
	// provider must receive the channel's failure body so it re-delivers.
	require.Error(t, err)
	var sigErr *payerr.SignatureError
	assert.True(t, errors.As(err, &sigErr))
	assert.False(t, invoked)
	assert.Equal(t, wechatFailAckSigMismatch, ack)
}

func TestProcess_EmptyBody(t *testing.T) {
	v := newWechatVerifier(t)

	ack, err := v.Process([]byte("  \n"), nil)

	require.Error(t, err)
	var fmtErr *payerr.FormatError
	assert.True(t, errors.As(err, &fmtErr))
	assert.Contains(t, ack, "FAIL")
}

func TestProcess_MalformedPayload(t *testing.T) {
	v := newWechatVerifier(t)

	ack, err := v.Process([]byte(`<xml><unterminated>`), nil)

	require.Error(t, err)
	var fmtErr *payerr.FormatError
	assert.True(t, errors.As(err, &fmtErr))
	assert.Contains(t, ack, "FAIL")
}

func TestProcess_MissingSignatureField(t *testing.T) {
	v := newWechatVerifier(t)

	ack, err := v.Process([]byte(`<xml><out_trade_no>A1</out_trade_no></xml>`), nil)

	require.Error(t, err)
	var sigErr *payerr.SignatureError
	assert.True(t, errors.As(err, &sigErr))
	assert.Equal(t, "signature field missing", sigErr.Reason)
	assert.Contains(t, ack, "FAIL")
}

func TestProcess_CallbackFailure(t *testing.T) {
	v := newWechatVerifier(t)

	// Test Case 1: callback returns false
	ack, err := v.Process([]byte(wechatValidXML), func(map[string]string) bool {
		return false
	})
	require.Error(t, err)
	var cbErr *payerr.CallbackFailureError
	assert.True(t, errors.As(err, &cbErr))
	assert.Contains(t, ack, "FAIL")

	// Test Case 2: callback panics; recovered once at the boundary
	ack, err = v.Process([]byte(wechatValidXML), func(map[string]string) bool {
		panic("orders table gone")
	})
	require.Error(t, err)
	require.True(t, errors.As(err, &cbErr))
	assert.Contains(t, cbErr.Reason, "orders table gone")
	assert.Contains(t, ack, "FAIL")
}

func TestProcess_DuplicateDelivery(t *testing.T) {
	v := newWechatVerifier(t)

	calls := 0
	cb := func(map[string]string) bool {
		calls++
		return true
	}

	first, err := v.Process([]byte(wechatValidXML), cb)
	require.NoError(t, err)
	second, err := v.Process([]byte(wechatValidXML), cb)
	require.NoError(t, err)

	// The verifier does not deduplicate: same bytes, same ack, callback
	// invoked each time.
	assert.Equal(t, first, second)
	assert.Equal(t, 2, calls)
}

func TestProcess_SaobeiJSON(t *testing.T) {
	v, err := NewVerifier(ChannelSaobei, signer.NewMD5Signer(), testSecret)
	require.NoError(t, err)

	body := `{"out_trade_no":"A1","total_amount":"0.01","sign":"` + testWechatSign + `"}`

	ack, err := v.Process([]byte(body), func(fields map[string]string) bool {
		return fields["out_trade_no"] == "A1"
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"return_code":"SUCCESS","return_msg":"OK"}`, ack)
}

func TestProcess_AlipayForm(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})

	rs, err := signer.NewRSASigner(signer.AlgorithmRSA2, signer.KeyMaterial{PrivateKey: string(privPEM)})
	require.NoError(t, err)

	bm := params.NewBodyMap().
		Set("out_trade_no", "A1").
		Set("trade_status", "TRADE_SUCCESS").
		Set("sign_type", "RSA2")
	sig, err := rs.Sign(canonical.BuildSigningString(bm, canonical.Asymmetric, ""))
	require.NoError(t, err)

	form := url.Values{}
	form.Set("out_trade_no", "A1")
	form.Set("trade_status", "TRADE_SUCCESS")
	form.Set("sign_type", "RSA2")
	form.Set("sign", sig)

	v, err := NewVerifier(ChannelAlipay, rs, "")
	require.NoError(t, err)

	// Test Case 1: genuine notification acknowledges with the literal
	ack, err := v.Process([]byte(form.Encode()), func(fields map[string]string) bool {
		return fields["trade_status"] == "TRADE_SUCCESS"
	})
	require.NoError(t, err)
	assert.Equal(t, "success", ack)

	// Test Case 2: tampered amount fails verification
	form.Set("out_trade_no", "A2")
	ack, err = v.Process([]byte(form.Encode()), nil)
	require.Error(t, err)
	assert.Equal(t, "failure", ack)
}

func TestChannelSpec_Acks(t *testing.T) {
	alipay, ok := Spec(ChannelAlipay)
	require.True(t, ok)
	assert.Equal(t, "success", alipay.SuccessAck())
	assert.Equal(t, "failure", alipay.FailAck("ignored"))

	wechat, ok := Spec(ChannelWechat)
	require.True(t, ok)
	assert.Equal(t, wechatSuccessAckBody, wechat.SuccessAck())
	assert.Contains(t, wechat.FailAck(""), "FAIL")

	saobei, ok := Spec(ChannelSaobei)
	require.True(t, ok)
	assert.JSONEq(t, `{"return_code":"FAIL","return_msg":"no stock"}`, saobei.FailAck("no stock"))
}

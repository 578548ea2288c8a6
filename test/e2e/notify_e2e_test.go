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

// Package e2e exercises the full payment flow over real HTTP: a stub
// gateway, the WeChat client, the facade server, and the notification
// verifier wired together the way a deployment assembles them.
package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/notify"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/server"
	"github.com/unipay-project/unipay-go/pkg/signer"
	"github.com/unipay-project/unipay-go/pkg/wechat"
)

const apiKey = "e2e-api-key"

// stubGateway answers unified-order requests like the WeChat gateway.
func stubGateway(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		doc, err := params.ParseXML(string(body), "")
		require.NoError(t, err)

		// Reject requests whose signature does not verify, as the real
		// gateway would.
		req := doc.ToBodyMap()
		sig := req.GetString("sign")
		req.Remove("sign")
		text := canonical.BuildSigningString(req, canonical.KeyedDigest, apiKey)
		if !signer.NewMD5Signer().Verify(text, sig) {
			_, _ = w.Write([]byte(params.NewXMLMap("").
				Set("return_code", "FAIL").
				Set("return_msg", "invalid signature").
				Serialize()))
			return
		}

		reply := params.NewBodyMap().
			Set("return_code", "SUCCESS").
			Set("result_code", "SUCCESS").
			Set("prepay_id", "wx-e2e-prepay").
			Set("out_trade_no", req.GetString("out_trade_no"))
		replySig, err := signer.NewMD5Signer().Sign(
			canonical.BuildSigningString(reply, canonical.KeyedDigest, apiKey))
		require.NoError(t, err)

		doc = params.NewXMLMap("")
		for _, k := range reply.Keys() {
			doc.Set(k, reply.GetString(k))
		}
		doc.Set("sign", replySig)
		_, _ = w.Write([]byte(doc.Serialize()))
	}))
}

func newFacade(t *testing.T, gatewayURL string) *httptest.Server {
	t.Helper()

	wc, err := wechat.NewClient(config.WechatConfig{
		AppID:      "wx-e2e",
		MchID:      "mch-e2e",
		APIKey:     apiKey,
		GatewayURL: gatewayURL,
		SignType:   signer.AlgorithmMD5,
	}, signer.Default())
	require.NoError(t, err)

	v, err := notify.NewVerifier(notify.ChannelWechat, signer.NewMD5Signer(), apiKey)
	require.NoError(t, err)

	s := server.New(config.ServerConfig{}, nil)
	s.RegisterClient(wc)
	s.RegisterVerifier(notify.ChannelWechat, v)
	return httptest.NewServer(s.Handler())
}

func TestPaymentFlowEndToEnd(t *testing.T) {
	gateway := stubGateway(t)
	defer gateway.Close()
	facade := newFacade(t, gateway.URL)
	defer facade.Close()

	// Step 1: create an order through the facade; the facade signs the
	// request, the stub gateway verifies and answers signed.
	resp, err := http.Post(facade.URL+"/api/v1/pay/create_order", "application/json",
		strings.NewReader(`{
			"channel": "wechat",
			"params": {
				"body": "e2e order",
				"out_trade_no": "E2E-001",
				"total_fee": "1",
				"spbill_create_ip": "127.0.0.1",
				"trade_type": "NATIVE"
			}
		}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Code string            `json:"code"`
		Msg  string            `json:"msg"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "0", envelope.Code, envelope.Msg)
	assert.Equal(t, "wx-e2e-prepay", envelope.Data["prepay_id"])

	// Step 2: the provider delivers the asynchronous payment notification;
	// the facade verifies it and answers the channel acknowledgement.
	fields := params.NewBodyMap().
		Set("out_trade_no", "E2E-001").
		Set("result_code", "SUCCESS").
		Set("total_fee", "1")
	sig, err := signer.NewMD5Signer().Sign(
		canonical.BuildSigningString(fields, canonical.KeyedDigest, apiKey))
	require.NoError(t, err)
	doc := params.NewXMLMap("")
	for _, k := range fields.Keys() {
		doc.Set(k, fields.GetString(k))
	}
	doc.Set("sign", sig)

	notifyResp, err := http.Post(facade.URL+"/api/v1/notify/wechat",
		"application/xml", strings.NewReader(doc.Serialize()))
	require.NoError(t, err)
	defer notifyResp.Body.Close()

	ack, err := io.ReadAll(notifyResp.Body)
	require.NoError(t, err)
	assert.Equal(t,
		`<xml><return_code>SUCCESS</return_code><return_msg>OK</return_msg></xml>`,
		string(ack))
	assert.Contains(t, notifyResp.Header.Get("Content-Type"), "application/xml")

	// Step 3: a replayed-but-tampered notification is refused.
	tampered := strings.Replace(doc.Serialize(), "E2E-001", "E2E-999", 1)
	badResp, err := http.Post(facade.URL+"/api/v1/notify/wechat",
		"application/xml", strings.NewReader(tampered))
	require.NoError(t, err)
	defer badResp.Body.Close()

	badAck, err := io.ReadAll(badResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(badAck), "FAIL")
}

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

package alipay

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/client"
	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/result"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

const (
	methodPagePay     = "alipay.trade.page.pay"
	methodWapPay      = "alipay.trade.wap.pay"
	methodAppPay      = "alipay.trade.app.pay"
	methodCreate      = "alipay.trade.create"
	methodQuery       = "alipay.trade.query"
	methodClose       = "alipay.trade.close"
	methodCancel      = "alipay.trade.cancel"
	methodRefund      = "alipay.trade.refund"
	methodRefundQuery = "alipay.trade.fastpay.refund.query"

	bizCodeSuccess = "10000"
)

// requestProfile canonicalizes outbound request parameters. Unlike inbound
// notification verification, sign_type is part of the signed request.
var requestProfile = canonical.Profile{
	Exclude:  []string{"sign"},
	SortKeys: true,
	Join:     canonical.JoinQuery,
	Secret:   canonical.SecretToSigner,
}

// Client is the Alipay open-platform client. Every operation shares one
// envelope: public parameters plus a biz_content JSON blob, RSA-signed with
// the application private key; gateway responses are verified against the
// platform public key.
type Client struct {
	cfg config.AlipayConfig

	http *client.HTTPClient
	sig  signer.Signer
	log  *zap.Logger

	// now is replaceable so tests can pin the timestamp parameter.
	now func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *client.HTTPClient) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient validates cfg, loads the key material, and builds a Client. The
// signer is resolved from reg by cfg.SignType (RSA or RSA2).
func NewClient(cfg config.AlipayConfig, reg *signer.Registry, opts ...ClientOption) (*Client, error) {
	if err := config.ValidateChannel(&cfg); err != nil {
		return nil, err
	}

	priv, err := cfg.PrivateKey()
	if err != nil {
		return nil, err
	}
	// The platform public key is optional: a merchant that has not yet
	// exchanged keys can sign requests but not verify responses.
	pub, _ := cfg.AlipayPublicKey()

	signType := cfg.SignType
	if signType == "" {
		signType = signer.AlgorithmRSA2
	}
	sig, err := reg.Get(signType, signer.KeyMaterial{PrivateKey: priv, PublicKey: pub})
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:  cfg,
		http: client.NewHTTPClient(),
		sig:  sig,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Channel implements client.PaymentClient.
func (c *Client) Channel() string { return "alipay" }

// TradePagePay builds the hosted desktop checkout URL for bm. Nothing is
// sent to the gateway; the user's browser performs the GET.
func (c *Client) TradePagePay(bm *params.BodyMap) *result.Response {
	return c.payURL(methodPagePay, bm, true)
}

// TradeWapPay builds the hosted mobile checkout URL.
func (c *Client) TradeWapPay(bm *params.BodyMap) *result.Response {
	return c.payURL(methodWapPay, bm, true)
}

// TradeAppPay builds the signed order string handed to the Alipay mobile
// SDK.
func (c *Client) TradeAppPay(bm *params.BodyMap) *result.Response {
	req, err := c.signedRequest(methodAppPay, bm, false)
	if err != nil {
		return result.Error(err.Error(), "", "")
	}
	return result.Success(map[string]string{"order_string": req.ToQuery()}, "")
}

func (c *Client) payURL(method string, bm *params.BodyMap, withReturnURL bool) *result.Response {
	req, err := c.signedRequest(method, bm, withReturnURL)
	if err != nil {
		return result.Error(err.Error(), "", "")
	}
	return result.Success(map[string]string{"pay_url": c.cfg.Gateway() + "?" + req.ToQuery()}, "")
}

// TradeCreate creates a trade through the gateway API.
func (c *Client) TradeCreate(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, methodCreate, bm)
}

// TradeQuery fetches a trade by merchant order number or Alipay trade
// number. Either may be empty, not both.
func (c *Client) TradeQuery(ctx context.Context, outTradeNo, tradeNo string) *result.Response {
	bm, resp := tradeRef(outTradeNo, tradeNo)
	if resp != nil {
		return resp
	}
	return c.doRequest(ctx, methodQuery, bm)
}

// TradeClose closes an unpaid trade.
func (c *Client) TradeClose(ctx context.Context, outTradeNo, tradeNo string) *result.Response {
	bm, resp := tradeRef(outTradeNo, tradeNo)
	if resp != nil {
		return resp
	}
	return c.doRequest(ctx, methodClose, bm)
}

// TradeCancel voids a trade, refunding it when already paid.
func (c *Client) TradeCancel(ctx context.Context, outTradeNo, tradeNo string) *result.Response {
	bm, resp := tradeRef(outTradeNo, tradeNo)
	if resp != nil {
		return resp
	}
	return c.doRequest(ctx, methodCancel, bm)
}

// TradeRefund refunds a trade. bm must carry refund_amount plus
// out_trade_no or trade_no; out_request_no distinguishes partial refunds.
func (c *Client) TradeRefund(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, methodRefund, bm)
}

// TradeRefundQuery fetches a refund's state.
func (c *Client) TradeRefundQuery(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, methodRefundQuery, bm)
}

// Pay implements client.PaymentClient via TradeCreate.
func (c *Client) Pay(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.TradeCreate(ctx, bm)
}

// Query implements client.PaymentClient.
func (c *Client) Query(ctx context.Context, outTradeNo string) *result.Response {
	return c.TradeQuery(ctx, outTradeNo, "")
}

// Close implements client.PaymentClient.
func (c *Client) Close(ctx context.Context, outTradeNo string) *result.Response {
	return c.TradeClose(ctx, outTradeNo, "")
}

// Refund implements client.PaymentClient.
func (c *Client) Refund(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.TradeRefund(ctx, bm)
}

// QueryRefund implements client.PaymentClient.
func (c *Client) QueryRefund(ctx context.Context, outRequestNo string) *result.Response {
	return c.TradeRefundQuery(ctx, params.NewBodyMap().
		Set("out_request_no", outRequestNo).
		Set("out_trade_no", outRequestNo))
}

func tradeRef(outTradeNo, tradeNo string) (*params.BodyMap, *result.Response) {
	if outTradeNo == "" && tradeNo == "" {
		return nil, result.Error("out_trade_no or trade_no required", "", "")
	}
	return params.NewBodyMap().
		Set("out_trade_no", outTradeNo).
		Set("trade_no", tradeNo), nil
}

// signedRequest assembles the public envelope around biz, signs it, and
// returns the complete parameter set including the signature.
func (c *Client) signedRequest(method string, biz *params.BodyMap, withReturnURL bool) (*params.BodyMap, error) {
	bizJSON, err := biz.ToJSON()
	if err != nil {
		return nil, err
	}

	req := params.NewBodyMap().
		Set("app_id", c.cfg.AppID).
		Set("method", method).
		Set("format", "JSON").
		Set("charset", "utf-8").
		Set("sign_type", c.sig.Algorithm()).
		Set("timestamp", c.now().Format("2006-01-02 15:04:05")).
		Set("version", "1.0").
		Set("biz_content", bizJSON)
	if c.cfg.NotifyURL != "" {
		req.Set("notify_url", c.cfg.NotifyURL)
	}
	if withReturnURL && c.cfg.ReturnURL != "" {
		req.Set("return_url", c.cfg.ReturnURL)
	}

	signature, err := c.sig.Sign(canonical.BuildSigningString(req, requestProfile, ""))
	if err != nil {
		return nil, err
	}
	req.Set("sign", signature)
	return req, nil
}

// doRequest posts a signed envelope to the gateway and unwraps the
// "<method>_response" node of the JSON reply.
func (c *Client) doRequest(ctx context.Context, method string, biz *params.BodyMap) *result.Response {
	req, err := c.signedRequest(method, biz, false)
	if err != nil {
		return result.Error("sign request: "+err.Error(), "", "")
	}

	raw, err := c.http.PostForm(ctx, c.cfg.Gateway(), req.ToQuery())
	if err != nil {
		c.log.Error("gateway request failed", zap.String("method", method), zap.Error(err))
		return result.Error(err.Error(), "", "")
	}

	return c.parseResponse(method, raw)
}

func (c *Client) parseResponse(method, raw string) *result.Response {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return result.Error("parse response: "+err.Error(), "", raw)
	}

	nodeKey := strings.ReplaceAll(method, ".", "_") + "_response"
	node, ok := envelope[nodeKey]
	if !ok {
		return result.Error("response missing "+nodeKey, "", raw)
	}

	var fieldsMap map[string]any
	if err := json.Unmarshal(node, &fieldsMap); err != nil {
		return result.Error("parse response node: "+err.Error(), "", raw)
	}
	fields := params.NewBodyMap()
	for k, v := range fieldsMap {
		fields.Set(k, params.Stringify(v))
	}

	// Verify the envelope signature when the platform public key is known.
	var envSig string
	if rawSig, ok := envelope["sign"]; ok {
		_ = json.Unmarshal(rawSig, &envSig)
	}
	if envSig != "" && (c.cfg.PublicKey != "" || c.cfg.PublicKeyPath != "") {
		text := canonical.BuildSigningString(fields, requestProfile, "")
		if !c.sig.Verify(text, envSig) {
			c.log.Warn("response signature mismatch", zap.String("method", method))
			return result.Error("response signature verification failed", "", raw)
		}
	}

	if code := fields.GetString("code"); code != bizCodeSuccess {
		msg := fields.GetString("sub_msg")
		if msg == "" {
			msg = fields.GetString("msg")
		}
		return result.Error(msg, code, raw)
	}

	return result.Success(fields.ToStringMap(), raw)
}

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

package wechat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/client"
	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/result"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

const (
	pathUnifiedOrder = "/pay/unifiedorder"
	pathOrderQuery   = "/pay/orderquery"
	pathCloseOrder   = "/pay/closeorder"
	pathRefund       = "/secapi/pay/refund"
	pathRefundQuery  = "/pay/refundquery"
)

// Client is the WeChat Pay v2 client: XML over HTTP with a shared-secret
// keyed signature on every request and response.
type Client struct {
	cfg  config.WechatConfig
	http *client.HTTPClient
	sig  signer.Signer
	log  *zap.Logger
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

// NewClient validates cfg and builds a Client. The signer is resolved from
// reg by cfg.SignType (MD5 or HMAC-SHA256); pass signer.Default() unless a
// custom registry is in play.
func NewClient(cfg config.WechatConfig, reg *signer.Registry, opts ...ClientOption) (*Client, error) {
	if err := config.ValidateChannel(&cfg); err != nil {
		return nil, err
	}
	signType := cfg.SignType
	if signType == "" {
		signType = signer.AlgorithmMD5
	}
	sig, err := reg.Get(signType, signer.KeyMaterial{Secret: cfg.APIKey})
	if err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, http: client.NewHTTPClient(), sig: sig, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Channel implements client.PaymentClient.
func (c *Client) Channel() string { return "wechat" }

// UnifiedOrder creates a payment. bm must carry body, out_trade_no,
// total_fee (in fen), spbill_create_ip and trade_type; optional fields such
// as openid travel through untouched.
func (c *Client) UnifiedOrder(ctx context.Context, bm *params.BodyMap) *result.Response {
	req := c.commonParams().Update(bm)
	if c.cfg.NotifyURL != "" {
		req.Set("notify_url", c.cfg.NotifyURL)
	}
	return c.doRequest(ctx, pathUnifiedOrder, req)
}

// OrderQuery fetches an order by merchant order number or provider
// transaction id. Either may be empty, not both.
func (c *Client) OrderQuery(ctx context.Context, outTradeNo, transactionID string) *result.Response {
	if outTradeNo == "" && transactionID == "" {
		return result.Error("out_trade_no or transaction_id required", "", "")
	}
	req := c.commonParams().
		Set("out_trade_no", outTradeNo).
		Set("transaction_id", transactionID)
	return c.doRequest(ctx, pathOrderQuery, req)
}

// CloseOrder closes an unpaid order.
func (c *Client) CloseOrder(ctx context.Context, outTradeNo string) *result.Response {
	req := c.commonParams().Set("out_trade_no", outTradeNo)
	return c.doRequest(ctx, pathCloseOrder, req)
}

// RefundOrder refunds a paid order. bm must carry out_trade_no,
// out_refund_no, total_fee and refund_fee.
func (c *Client) RefundOrder(ctx context.Context, bm *params.BodyMap) *result.Response {
	req := c.commonParams().Update(bm)
	return c.doRequest(ctx, pathRefund, req)
}

// RefundQuery fetches a refund by refund number or provider transaction id.
func (c *Client) RefundQuery(ctx context.Context, outRefundNo, transactionID string) *result.Response {
	if outRefundNo == "" && transactionID == "" {
		return result.Error("out_refund_no or transaction_id required", "", "")
	}
	req := c.commonParams().
		Set("out_refund_no", outRefundNo).
		Set("transaction_id", transactionID)
	return c.doRequest(ctx, pathRefundQuery, req)
}

// Pay implements client.PaymentClient via UnifiedOrder.
func (c *Client) Pay(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.UnifiedOrder(ctx, bm)
}

// Query implements client.PaymentClient.
func (c *Client) Query(ctx context.Context, outTradeNo string) *result.Response {
	return c.OrderQuery(ctx, outTradeNo, "")
}

// Close implements client.PaymentClient.
func (c *Client) Close(ctx context.Context, outTradeNo string) *result.Response {
	return c.CloseOrder(ctx, outTradeNo)
}

// Refund implements client.PaymentClient.
func (c *Client) Refund(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.RefundOrder(ctx, bm)
}

// QueryRefund implements client.PaymentClient.
func (c *Client) QueryRefund(ctx context.Context, outRefundNo string) *result.Response {
	return c.RefundQuery(ctx, outRefundNo, "")
}

func (c *Client) commonParams() *params.BodyMap {
	return params.NewBodyMap().
		Set("appid", c.cfg.AppID).
		Set("mch_id", c.cfg.MchID).
		Set("nonce_str", nonceStr())
}

// nonceStr yields the 32-character random token the v2 protocol expects on
// every request.
func nonceStr() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// doRequest signs bm, posts it as XML, and maps the provider response onto
// the uniform result wrapper.
func (c *Client) doRequest(ctx context.Context, path string, bm *params.BodyMap) *result.Response {
	// The v2 protocol appends &key= to the signing string for both MD5 and
	// HMAC-SHA256, so the keyed-digest profile applies regardless of
	// SignType.
	signature, err := c.sig.Sign(canonical.BuildSigningString(bm, canonical.KeyedDigest, c.cfg.APIKey))
	if err != nil {
		return result.Error("sign request: "+err.Error(), "", "")
	}
	bm.Set("sign", signature)

	doc := params.NewXMLMap("")
	for _, k := range bm.Keys() {
		doc.Set(k, bm.GetString(k))
	}

	raw, err := c.http.PostXML(ctx, c.cfg.Gateway()+path, doc.Serialize())
	if err != nil {
		c.log.Error("gateway request failed", zap.String("path", path), zap.Error(err))
		return result.Error(err.Error(), "", "")
	}

	return c.parseResponse(path, raw)
}

func (c *Client) parseResponse(path, raw string) *result.Response {
	doc, err := params.ParseXML(raw, "")
	if err != nil {
		return result.Error("parse response: "+err.Error(), "", raw)
	}
	fields := doc.ToBodyMap()

	// A signed response must verify before any field is trusted.
	if sig := fields.GetString("sign"); sig != "" {
		fields.Remove("sign")
		text := canonical.BuildSigningString(fields, canonical.KeyedDigest, c.cfg.APIKey)
		if !c.sig.Verify(text, sig) {
			c.log.Warn("response signature mismatch", zap.String("path", path))
			return result.Error("response signature verification failed", "", raw)
		}
	}

	if rc := fields.GetString("return_code"); rc != "SUCCESS" {
		return result.Error(fields.GetString("return_msg"), rc, raw)
	}
	if fields.Contains("result_code") && fields.GetString("result_code") != "SUCCESS" {
		return result.Error(fields.GetString("err_code_des"), fields.GetString("err_code"), raw)
	}

	return result.Success(fields.ToStringMap(), raw)
}

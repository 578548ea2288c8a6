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

package saobei

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/client"
	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/result"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

const (
	pathMiniPay     = "/api/miniPay"
	pathBarcodePay  = "/api/barcodePay"
	pathQuery       = "/api/query"
	pathRefund      = "/api/refund"
	pathRefundQuery = "/api/refundQuery"
	pathCloseOrder  = "/api/closeOrder"
	pathCancelOrder = "/api/cancelOrder"
	pathPayQRCode   = "/api/getPayQrcode"
)

// Client is the Saobei (LCSW) aggregate-acquirer client: JSON over HTTP
// with an MD5 keyed digest on every request and response.
type Client struct {
	cfg  config.SaobeiConfig
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

// NewClient validates cfg and builds a Client.
func NewClient(cfg config.SaobeiConfig, reg *signer.Registry, opts ...ClientOption) (*Client, error) {
	if err := config.ValidateChannel(&cfg); err != nil {
		return nil, err
	}
	sig, err := reg.Get(signer.AlgorithmMD5, signer.KeyMaterial{})
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
func (c *Client) Channel() string { return "saobei" }

// MiniPay creates an in-app (mini program) payment. bm must carry
// out_trade_no, total_fee, body and openid.
func (c *Client) MiniPay(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, pathMiniPay, bm)
}

// BarcodePay charges a customer-presented payment barcode. bm must carry
// out_trade_no, total_fee and auth_code.
func (c *Client) BarcodePay(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, pathBarcodePay, bm)
}

// QueryOrder fetches an order by merchant order number.
func (c *Client) QueryOrder(ctx context.Context, outTradeNo string) *result.Response {
	return c.doRequest(ctx, pathQuery, params.NewBodyMap().Set("out_trade_no", outTradeNo))
}

// RefundOrder refunds an order. bm must carry out_trade_no, out_refund_no
// and refund_fee.
func (c *Client) RefundOrder(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, pathRefund, bm)
}

// RefundQuery fetches a refund by refund number.
func (c *Client) RefundQuery(ctx context.Context, outRefundNo string) *result.Response {
	return c.doRequest(ctx, pathRefundQuery, params.NewBodyMap().Set("out_refund_no", outRefundNo))
}

// CloseOrder closes an unpaid order.
func (c *Client) CloseOrder(ctx context.Context, outTradeNo string) *result.Response {
	return c.doRequest(ctx, pathCloseOrder, params.NewBodyMap().Set("out_trade_no", outTradeNo))
}

// CancelOrder voids an order, reversing it when already paid.
func (c *Client) CancelOrder(ctx context.Context, outTradeNo string) *result.Response {
	return c.doRequest(ctx, pathCancelOrder, params.NewBodyMap().Set("out_trade_no", outTradeNo))
}

// GetPayQRCode requests a merchant-presented payment QR code. bm must carry
// out_trade_no, total_fee and body.
func (c *Client) GetPayQRCode(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.doRequest(ctx, pathPayQRCode, bm)
}

// Pay implements client.PaymentClient via MiniPay.
func (c *Client) Pay(ctx context.Context, bm *params.BodyMap) *result.Response {
	return c.MiniPay(ctx, bm)
}

// Query implements client.PaymentClient.
func (c *Client) Query(ctx context.Context, outTradeNo string) *result.Response {
	return c.QueryOrder(ctx, outTradeNo)
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
	return c.RefundQuery(ctx, outRefundNo)
}

// doRequest merges the terminal identity into bm, signs, posts JSON, and
// maps the reply onto the uniform result wrapper.
func (c *Client) doRequest(ctx context.Context, path string, bm *params.BodyMap) *result.Response {
	req := params.NewBodyMap().
		Set("merchant_no", c.cfg.MerchantNo).
		Set("terminal_id", c.cfg.TerminalID).
		Update(bm)

	signature, err := c.sig.Sign(canonical.BuildSigningString(req, canonical.KeyedDigest, c.cfg.AccessToken))
	if err != nil {
		return result.Error("sign request: "+err.Error(), "", "")
	}
	req.Set("sign", signature)

	body, err := req.ToJSON()
	if err != nil {
		return result.Error("encode request: "+err.Error(), "", "")
	}

	raw, err := c.http.PostJSON(ctx, c.cfg.GatewayURL+path, body)
	if err != nil {
		c.log.Error("gateway request failed", zap.String("path", path), zap.Error(err))
		return result.Error(err.Error(), "", "")
	}

	return c.parseResponse(path, raw)
}

func (c *Client) parseResponse(path, raw string) *result.Response {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return result.Error("parse response: "+err.Error(), "", raw)
	}
	fields := params.NewBodyMap()
	for k, v := range obj {
		fields.Set(k, params.Stringify(v))
	}

	if sig := fields.GetString("sign"); sig != "" {
		fields.Remove("sign")
		text := canonical.BuildSigningString(fields, canonical.KeyedDigest, c.cfg.AccessToken)
		if !c.sig.Verify(text, sig) {
			c.log.Warn("response signature mismatch", zap.String("path", path))
			return result.Error("response signature verification failed", "", raw)
		}
	}

	if rc := fields.GetString("return_code"); rc != "SUCCESS" {
		return result.Error(fields.GetString("return_msg"), rc, raw)
	}
	if fields.Contains("result_code") && fields.GetString("result_code") != "SUCCESS" {
		return result.Error(fields.GetString("return_msg"), fields.GetString("result_code"), raw)
	}

	return result.Success(fields.ToStringMap(), raw)
}

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

package client

import (
	"context"

	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/result"
)

// PaymentClient is the operation surface shared by every provider client.
// Implementations return a *result.Response for expected failure modes
// (provider business errors, bad signatures on responses); the error return
// is reserved for programming mistakes such as a nil parameter map.
//
// Each provider also exposes operations with no cross-provider equivalent
// (hosted page URLs, QR codes) as extra methods on its concrete type;
// callers needing those accept the concrete client.
type PaymentClient interface {
	// Pay creates a payment with provider-specific parameters.
	Pay(ctx context.Context, bm *params.BodyMap) *result.Response

	// Query fetches the current state of an order by merchant order number.
	Query(ctx context.Context, outTradeNo string) *result.Response

	// Close closes an unpaid order.
	Close(ctx context.Context, outTradeNo string) *result.Response

	// Refund refunds a paid order, fully or partially.
	Refund(ctx context.Context, bm *params.BodyMap) *result.Response

	// QueryRefund fetches the state of a refund.
	QueryRefund(ctx context.Context, outRefundNo string) *result.Response

	// Channel names the provider, matching the notify package's channel
	// identifiers.
	Channel() string
}

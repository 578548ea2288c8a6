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

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/unipay-project/unipay-go/pkg/alipay"
	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

func main() {
	fmt.Println("UniPay Go - Alipay Payment Example")
	fmt.Println("==================================")

	cfg := config.AlipayConfig{
		AppID:             os.Getenv("UNIPAY_ALIPAY_APP_ID"),
		IsSandbox:         true,
		SignType:          signer.AlgorithmRSA2,
		AppPrivateKeyPath: os.Getenv("UNIPAY_ALIPAY_APP_PRIVATE_KEY_PATH"),
		PublicKeyPath:     os.Getenv("UNIPAY_ALIPAY_PUBLIC_KEY_PATH"),
		NotifyURL:         "https://shop.example/api/v1/notify/alipay",
		ReturnURL:         "https://shop.example/checkout/done",
	}

	c, err := alipay.NewClient(cfg, signer.Default())
	if err != nil {
		log.Fatalf("Failed to create Alipay client: %v", err)
	}

	// 1. Build a hosted desktop checkout URL.
	fmt.Println("\n1. Building desktop checkout URL...")
	resp := c.TradePagePay(params.NewBodyMap().
		Set("out_trade_no", "EXAMPLE-20260825-001").
		Set("total_amount", "0.01").
		Set("subject", "UniPay example order").
		Set("product_code", "FAST_INSTANT_TRADE_PAY"))
	if !resp.Success {
		log.Fatalf("Failed to build pay URL: %s", resp.Error)
	}
	fmt.Printf("   Redirect the buyer to:\n   %s\n", resp.Get("pay_url"))

	// 2. Query the order through the gateway.
	fmt.Println("\n2. Querying the order...")
	resp = c.TradeQuery(context.Background(), "EXAMPLE-20260825-001", "")
	if !resp.Success {
		fmt.Printf("   Query failed (expected before payment): [%s] %s\n", resp.Code, resp.Error)
	} else {
		fmt.Printf("   Trade status: %s\n", resp.Get("trade_status"))
	}

	// 3. Refund after payment.
	fmt.Println("\n3. Refunding...")
	resp = c.TradeRefund(context.Background(), params.NewBodyMap().
		Set("out_trade_no", "EXAMPLE-20260825-001").
		Set("refund_amount", "0.01").
		Set("out_request_no", "EXAMPLE-REFUND-001").
		Set("refund_reason", "example walkthrough"))
	if !resp.Success {
		fmt.Printf("   Refund failed (expected before payment): [%s] %s\n", resp.Code, resp.Error)
	} else {
		fmt.Printf("   Fund change: %s\n", resp.Get("fund_change"))
	}
}

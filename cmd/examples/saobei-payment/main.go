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

	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/saobei"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

func main() {
	fmt.Println("UniPay Go - Saobei Payment Example")
	fmt.Println("==================================")

	cfg := config.SaobeiConfig{
		MerchantNo:  os.Getenv("UNIPAY_SAOBEI_MERCHANT_NO"),
		TerminalID:  os.Getenv("UNIPAY_SAOBEI_TERMINAL_ID"),
		AccessToken: os.Getenv("UNIPAY_SAOBEI_ACCESS_TOKEN"),
		GatewayURL:  "https://pay.lcsw.cn/lcsw",
	}

	c, err := saobei.NewClient(cfg, signer.Default())
	if err != nil {
		log.Fatalf("Failed to create Saobei client: %v", err)
	}
	ctx := context.Background()

	// 1. Charge a customer-presented barcode.
	fmt.Println("\n1. Charging payment barcode...")
	resp := c.BarcodePay(ctx, params.NewBodyMap().
		Set("out_trade_no", "EXAMPLE-20260825-001").
		Set("total_fee", "1").
		Set("body", "UniPay example order").
		Set("auth_code", "134567890123456789"))
	if !resp.Success {
		fmt.Printf("   Payment failed: [%s] %s\n", resp.Code, resp.Error)
	} else {
		fmt.Printf("   Trade state: %s\n", resp.Get("trade_state"))
	}

	// 2. Request a merchant-presented QR code instead.
	fmt.Println("\n2. Requesting payment QR code...")
	resp = c.GetPayQRCode(ctx, params.NewBodyMap().
		Set("out_trade_no", "EXAMPLE-20260825-002").
		Set("total_fee", "1").
		Set("body", "UniPay example order"))
	if !resp.Success {
		fmt.Printf("   QR code failed: [%s] %s\n", resp.Code, resp.Error)
	} else {
		fmt.Printf("   QR content: %s\n", resp.Get("qr_code"))
	}

	// 3. Query, then close what was never paid.
	fmt.Println("\n3. Querying and closing...")
	resp = c.QueryOrder(ctx, "EXAMPLE-20260825-002")
	fmt.Printf("   Query success=%v\n", resp.Success)

	resp = c.CloseOrder(ctx, "EXAMPLE-20260825-002")
	fmt.Printf("   Close success=%v\n", resp.Success)
}

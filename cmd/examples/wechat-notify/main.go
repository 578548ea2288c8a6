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
	"fmt"
	"log"

	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/notify"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/signer"
)

const apiKey = "example-api-key"

func main() {
	fmt.Println("UniPay Go - WeChat Notification Example")
	fmt.Println("=======================================")

	// 1. Build a verifier for the WeChat channel.
	fmt.Println("\n1. Creating verifier...")
	v, err := notify.NewVerifier(notify.ChannelWechat, signer.NewMD5Signer(), apiKey)
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}

	// 2. Fabricate the notification a gateway would deliver.
	fmt.Println("\n2. Building a signed notification...")
	fields := params.NewBodyMap().
		Set("out_trade_no", "EXAMPLE-20260825-001").
		Set("result_code", "SUCCESS").
		Set("total_fee", "1")
	sig, err := signer.NewMD5Signer().Sign(
		canonical.BuildSigningString(fields, canonical.KeyedDigest, apiKey))
	if err != nil {
		log.Fatalf("Failed to sign: %v", err)
	}

	doc := params.NewXMLMap("")
	for _, k := range fields.Keys() {
		doc.Set(k, fields.GetString(k))
	}
	doc.Set("sign", sig)
	body := doc.Serialize()
	fmt.Printf("   %s\n", body)

	// 3. Process it: parse, verify, dispatch, acknowledge.
	fmt.Println("\n3. Processing...")
	ack, err := v.Process([]byte(body), func(fields map[string]string) bool {
		fmt.Printf("   Order %s paid, marking fulfilled\n", fields["out_trade_no"])
		return true
	})
	if err != nil {
		log.Fatalf("Notification rejected: %v", err)
	}
	fmt.Printf("   Acknowledgement (%s):\n   %s\n", v.ContentType(), ack)

	// 4. A tampered copy is rejected and the callback never runs.
	fmt.Println("\n4. Processing a tampered copy...")
	tampered := []byte(`<xml><out_trade_no>EXAMPLE-20260825-001</out_trade_no><total_fee>999999</total_fee><sign>` + sig + `</sign></xml>`)
	ack, err = v.Process(tampered, func(map[string]string) bool {
		panic("unreachable: tampered notification must not dispatch")
	})
	fmt.Printf("   Rejected: %v\n", err)
	fmt.Printf("   Acknowledgement: %s\n", ack)
}

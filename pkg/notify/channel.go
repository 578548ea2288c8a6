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
	"github.com/unipay-project/unipay-go/pkg/canonical"
	"github.com/unipay-project/unipay-go/pkg/params"
)

// Channel identifies a payment provider's notification convention.
type Channel string

const (
	ChannelAlipay Channel = "alipay"
	ChannelWechat Channel = "wechat"
	ChannelQQ     Channel = "qq"
	ChannelSaobei Channel = "saobei"
)

// WireFormat is a notification payload encoding.
type WireFormat int

const (
	FormatForm WireFormat = iota
	FormatXML
	FormatJSON
)

// ChannelSpec is the complete notification convention of one channel: wire
// format, canonicalization profile, signature field, and acknowledgement
// bodies. The behavior set is closed and small, so it is a table of values
// consumed by one Verifier rather than a type per channel.
type ChannelSpec struct {
	Channel     Channel
	Format      WireFormat
	Profile     canonical.Profile
	SignField   string
	ContentType string

	successAck func() string
	failAck    func(msg string) string
}

// SuccessAck returns the acknowledgement body that stops provider retries.
func (cs ChannelSpec) SuccessAck() string { return cs.successAck() }

// FailAck returns the acknowledgement body reporting a processing failure.
// Providers re-deliver after it; msg is advisory only.
func (cs ChannelSpec) FailAck(msg string) string { return cs.failAck(msg) }

var channelSpecs = map[Channel]ChannelSpec{
	ChannelAlipay: {
		Channel:     ChannelAlipay,
		Format:      FormatForm,
		Profile:     canonical.Asymmetric,
		SignField:   "sign",
		ContentType: "text/plain; charset=utf-8",
		// Alipay pattern-matches these exact literals.
		successAck: func() string { return "success" },
		failAck:    func(string) string { return "failure" },
	},
	ChannelWechat: {
		Channel:     ChannelWechat,
		Format:      FormatXML,
		Profile:     canonical.KeyedDigest,
		SignField:   "sign",
		ContentType: "application/xml; charset=utf-8",
		successAck:  xmlSuccessAck,
		failAck:     xmlFailAck,
	},
	ChannelQQ: {
		Channel:     ChannelQQ,
		Format:      FormatXML,
		Profile:     canonical.KeyedDigest,
		SignField:   "sign",
		ContentType: "application/xml; charset=utf-8",
		successAck:  xmlSuccessAck,
		failAck:     xmlFailAck,
	},
	ChannelSaobei: {
		Channel:     ChannelSaobei,
		Format:      FormatJSON,
		Profile:     canonical.KeyedDigest,
		SignField:   "sign",
		ContentType: "application/json; charset=utf-8",
		successAck: func() string {
			return `{"return_code":"SUCCESS","return_msg":"OK"}`
		},
		failAck: func(msg string) string {
			if msg == "" {
				msg = "processing failed"
			}
			s, _ := params.NewBodyMap().
				Set("return_code", "FAIL").
				Set("return_msg", msg).
				ToJSON()
			return s
		},
	},
}

func xmlSuccessAck() string {
	return params.NewXMLMap("").
		Set("return_code", "SUCCESS").
		Set("return_msg", "OK").
		Serialize()
}

func xmlFailAck(msg string) string {
	if msg == "" {
		msg = "processing failed"
	}
	return params.NewXMLMap("").
		Set("return_code", "FAIL").
		Set("return_msg", msg).
		Serialize()
}

// Spec returns the ChannelSpec for channel.
func Spec(channel Channel) (ChannelSpec, bool) {
	cs, ok := channelSpecs[channel]
	return cs, ok
}

// Channels returns the channels with a notification convention.
func Channels() []Channel {
	out := make([]Channel, 0, len(channelSpecs))
	for c := range channelSpecs {
		out = append(out, c)
	}
	return out
}

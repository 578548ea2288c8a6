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

// Package unipay provides version information for unipay-go and the
// provider protocol generations it implements.
package unipay

const (
	// Version is the current version of unipay-go
	Version = "1.0.0"

	// WechatPayAPIVersion is the WeChat Pay merchant API generation this
	// library speaks (the XML v2 surface)
	WechatPayAPIVersion = "2"

	// AlipayGatewayVersion is the Alipay open-platform gateway protocol
	// version sent on every request
	AlipayGatewayVersion = "1.0"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	UnipayVersion        string
	WechatPayAPIVersion  string
	AlipayGatewayVersion string
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		UnipayVersion:        Version,
		WechatPayAPIVersion:  WechatPayAPIVersion,
		AlipayGatewayVersion: AlipayGatewayVersion,
	}
}

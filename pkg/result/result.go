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

// Package result provides the uniform response wrapper returned by every
// public payment operation, replacing error-based control flow for expected
// failure modes such as provider-reported business errors.
package result

// Response is the uniform success/data/error value returned by provider
// clients. A Response is built through Success or Error and must be treated
// as immutable afterwards.
//
// Invariants: Success == true implies Error and Code are empty;
// Success == false implies Data is nil.
type Response struct {
	// Success reports whether the operation completed successfully
	Success bool `json:"success"`

	// Data holds the parsed provider response fields on success
	Data map[string]string `json:"data,omitempty"`

	// Error is a human-readable failure description
	Error string `json:"error,omitempty"`

	// Code is the provider- or transport-level failure code
	Code string `json:"code,omitempty"`

	// RawResponse is the unmodified provider response body, when available
	RawResponse string `json:"raw_response,omitempty"`
}

// Success builds a successful Response carrying the parsed provider fields.
func Success(data map[string]string, raw string) *Response {
	return &Response{
		Success:     true,
		Data:        data,
		RawResponse: raw,
	}
}

// Error builds a failed Response. code may be empty when the failure has no
// provider code (for example a network error before any response arrived).
func Error(errMsg, code, raw string) *Response {
	return &Response{
		Success:     false,
		Error:       errMsg,
		Code:        code,
		RawResponse: raw,
	}
}

// Get returns the named data field, or the empty string when the Response
// failed or the field is absent.
func (r *Response) Get(key string) string {
	if r == nil || r.Data == nil {
		return ""
	}
	return r.Data[key]
}

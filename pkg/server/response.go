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

package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

// API response codes. These are the facade's own codes, distinct from
// provider business codes which travel inside data.
const (
	CodeSuccess       = "0"
	CodeError         = "-1"
	CodeInvalidParams = "400"
	CodeUnauthorized  = "401"
	CodeNotFound      = "404"
	CodeServerError   = "500"
)

// ApiResponse is the uniform JSON envelope of every facade endpoint.
type ApiResponse struct {
	Code      string `json:"code"`
	Msg       string `json:"msg"`
	Data      any    `json:"data,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func newResponse(c *gin.Context, code, msg string, data any) ApiResponse {
	return ApiResponse{
		Code:      code,
		Msg:       msg,
		Data:      data,
		TraceID:   c.GetString(traceIDKey),
		Timestamp: time.Now().Unix(),
	}
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, newResponse(c, CodeSuccess, "Success", data))
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, newResponse(c, code, msg, nil))
}

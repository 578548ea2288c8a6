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
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	traceIDKey    = "trace_id"
	traceIDHeader = "X-Trace-Id"
	apiKeyHeader  = "X-API-Key"
)

// traceMiddleware assigns each request a trace id, honoring one supplied by
// the caller, and echoes it in the response headers.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(traceIDKey, traceID)
		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

// loggingMiddleware logs one structured line per request.
func loggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("trace_id", c.GetString(traceIDKey)))
	}
}

// authMiddleware rejects requests without a configured API key. Provider
// notification endpoints are exempt: the provider authenticates by
// signature, not by key.
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || strings.HasPrefix(c.Request.URL.Path, "/api/v1/notify/") {
			c.Next()
			return
		}
		if c.GetHeader(apiKeyHeader) != apiKey {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid or missing API key")
			c.Abort()
			return
		}
		c.Next()
	}
}

// recoveryMiddleware converts a handler panic into the uniform error
// envelope instead of gin's default plain 500.
func recoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("trace_id", c.GetString(traceIDKey)))
				respondError(c, http.StatusInternalServerError, CodeServerError, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

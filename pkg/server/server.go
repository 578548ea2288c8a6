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
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/client"
	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/notify"
	"github.com/unipay-project/unipay-go/pkg/params"
	"github.com/unipay-project/unipay-go/pkg/result"
)

// Server is the HTTP facade over the provider clients: one JSON surface for
// the common payment operations plus the inbound notification endpoints.
// Channels are registered at assembly time; requests naming an unregistered
// channel fail with 404.
type Server struct {
	cfg       config.ServerConfig
	engine    *gin.Engine
	log       *zap.Logger
	clients   map[string]client.PaymentClient
	verifiers map[string]*notify.Verifier
	httpSrv   *http.Server
}

// payRequest is the body of every payment operation endpoint.
type payRequest struct {
	Channel string            `json:"channel" binding:"required"`
	Params  map[string]string `json:"params"`
}

// New creates a Server. Register channels with RegisterClient and
// RegisterVerifier before Run.
func New(cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:       cfg,
		engine:    gin.New(),
		log:       log,
		clients:   make(map[string]client.PaymentClient),
		verifiers: make(map[string]*notify.Verifier),
	}

	s.engine.Use(
		traceMiddleware(),
		loggingMiddleware(log),
		recoveryMiddleware(log),
		authMiddleware(cfg.APIKey),
	)
	s.routes()
	return s
}

// RegisterClient exposes a provider client under its channel name.
func (s *Server) RegisterClient(pc client.PaymentClient) {
	s.clients[pc.Channel()] = pc
}

// RegisterVerifier exposes a notification endpoint for channel.
func (s *Server) RegisterVerifier(channel notify.Channel, v *notify.Verifier) {
	s.verifiers[string(channel)] = v
}

// Handler returns the underlying http.Handler, mainly for tests and for
// embedding into an existing server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.httpSrv = &http.Server{Addr: s.cfg.Addr, Handler: s.engine}
	s.log.Info("payment facade listening", zap.String("addr", s.cfg.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes() {
	v1 := s.engine.Group("/api/v1")

	pay := v1.Group("/pay")
	pay.POST("/create_order", s.handleOp(func(ctx context.Context, pc client.PaymentClient, bm *params.BodyMap) *result.Response {
		return pc.Pay(ctx, bm)
	}))
	pay.POST("/query_order", s.handleOp(func(ctx context.Context, pc client.PaymentClient, bm *params.BodyMap) *result.Response {
		return pc.Query(ctx, bm.GetString("out_trade_no"))
	}))
	pay.POST("/close_order", s.handleOp(func(ctx context.Context, pc client.PaymentClient, bm *params.BodyMap) *result.Response {
		return pc.Close(ctx, bm.GetString("out_trade_no"))
	}))
	pay.POST("/refund", s.handleOp(func(ctx context.Context, pc client.PaymentClient, bm *params.BodyMap) *result.Response {
		return pc.Refund(ctx, bm)
	}))
	pay.POST("/query_refund", s.handleOp(func(ctx context.Context, pc client.PaymentClient, bm *params.BodyMap) *result.Response {
		return pc.QueryRefund(ctx, bm.GetString("out_refund_no"))
	}))

	v1.POST("/notify/:channel", s.handleNotify)
	v1.GET("/channels", s.handleChannels)
}

type payOp func(ctx context.Context, pc client.PaymentClient, bm *params.BodyMap) *result.Response

func (s *Server) handleOp(op payOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidParams, "invalid request body: "+err.Error())
			return
		}

		pc, ok := s.clients[req.Channel]
		if !ok {
			respondError(c, http.StatusNotFound, CodeNotFound, "unknown payment channel: "+req.Channel)
			return
		}

		bm := params.NewBodyMap()
		for k, v := range req.Params {
			bm.Set(k, v)
		}

		resp := op(c.Request.Context(), pc, bm)
		if !resp.Success {
			respondError(c, http.StatusOK, CodeError, resp.Error)
			return
		}
		respondSuccess(c, http.StatusOK, resp.Data)
	}
}

// handleNotify passes the raw provider body to the channel verifier and
// writes the acknowledgement verbatim: the provider expects the channel's
// own body, never the JSON envelope.
func (s *Server) handleNotify(c *gin.Context) {
	channel := c.Param("channel")
	v, ok := s.verifiers[channel]
	if !ok {
		respondError(c, http.StatusNotFound, CodeNotFound, "unknown notification channel: "+channel)
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "read body: "+err.Error())
		return
	}

	ack, procErr := v.Process(raw, s.notifyCallback(channel))
	if procErr != nil {
		s.log.Warn("notification rejected",
			zap.String("channel", channel),
			zap.String("trace_id", c.GetString(traceIDKey)),
			zap.Error(procErr))
	}
	c.Data(http.StatusOK, v.ContentType(), []byte(ack))
}

// notifyCallback is the default business hook: log and accept. Deployments
// embedding the facade register their own verifiers built around real
// order handling.
func (s *Server) notifyCallback(channel string) notify.Callback {
	return func(fields map[string]string) bool {
		s.log.Info("payment notification verified",
			zap.String("channel", channel),
			zap.String("out_trade_no", fields["out_trade_no"]))
		return true
	}
}

func (s *Server) handleChannels(c *gin.Context) {
	channels := make([]string, 0, len(s.clients))
	for ch := range s.clients {
		channels = append(channels, ch)
	}
	respondSuccess(c, http.StatusOK, gin.H{"channels": channels})
}

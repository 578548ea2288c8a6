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
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unipay-project/unipay-go/pkg/config"
	"github.com/unipay-project/unipay-go/pkg/logger"
	"github.com/unipay-project/unipay-go/pkg/notify"
	"github.com/unipay-project/unipay-go/pkg/server"
	"github.com/unipay-project/unipay-go/pkg/signer"
	"github.com/unipay-project/unipay-go/pkg/wechat"
)

func main() {
	cfg, err := config.Load(os.Getenv("UNIPAY_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	srv := server.New(cfg.Server, logger.Log)

	// Wire up whichever channels are configured.
	if err := config.ValidateChannel(&cfg.Wechat); err == nil {
		wc, err := wechat.NewClient(cfg.Wechat, signer.Default(), wechat.WithLogger(logger.Log))
		if err != nil {
			log.Fatalf("Failed to create WeChat client: %v", err)
		}
		srv.RegisterClient(wc)

		md5, err := signer.Default().Get(signer.AlgorithmMD5, signer.KeyMaterial{})
		if err != nil {
			log.Fatalf("Failed to build signer: %v", err)
		}
		v, err := notify.NewVerifier(notify.ChannelWechat, md5, cfg.Wechat.APIKey,
			notify.WithLogger(logger.Log))
		if err != nil {
			log.Fatalf("Failed to create verifier: %v", err)
		}
		srv.RegisterVerifier(notify.ChannelWechat, v)
	} else {
		logger.Log.Warn("wechat channel not configured", zap.Error(err))
	}

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("serve failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("shutdown failed", zap.Error(err))
	}
}

// Package server is the optional HTTP facade over the provider clients.
//
// It exposes the cross-provider operations as POST endpoints under
// /api/v1/pay, each taking {"channel": "...", "params": {...}} and
// answering with the uniform ApiResponse envelope, plus one notification
// endpoint per registered channel under /api/v1/notify/:channel that
// answers with the channel's own acknowledgement body.
//
//	srv := server.New(cfg.Server, log)
//	srv.RegisterClient(wechatClient)
//	srv.RegisterVerifier(notify.ChannelWechat, wechatVerifier)
//	if err := srv.Run(); err != nil {
//	    log.Fatal("serve", zap.Error(err))
//	}
package server

// Package config loads and validates the per-channel merchant credentials
// and the ambient logging/serving settings.
//
// Configuration merges three sources with environment variables winning
// over the file and the file winning over built-in defaults:
//
//	cfg, err := config.Load("unipay.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.ValidateChannel(&cfg.Wechat); err != nil {
//	    return err // *payerr.ConfigError naming the offending key
//	}
//
// Channel sections validate independently so a deployment may configure
// only the channels it uses. Asymmetric key material is accepted inline or
// as a file path; the path wins when both are present. Alipay and WeChat
// sections carry an is_sandbox switch that redirects the client to the
// provider's sandbox gateway.
//
// Deployments serving several merchant accounts per channel can hold their
// sections in a Manager, which validates on Register and hands them back by
// name.
package config

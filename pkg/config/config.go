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

package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/unipay-project/unipay-go/pkg/logger"
	"github.com/unipay-project/unipay-go/pkg/payerr"
)

// Config is the full configuration tree: one section per payment channel
// plus the logging and serving sections. A channel section left empty means
// the channel is not configured; EnabledChannels reports which are.
type Config struct {
	Alipay AlipayConfig  `mapstructure:"alipay"`
	Wechat WechatConfig  `mapstructure:"wechat"`
	QQ     QQConfig      `mapstructure:"qq"`
	Saobei SaobeiConfig  `mapstructure:"saobei"`
	Log    logger.Config `mapstructure:"log"`
	Server ServerConfig  `mapstructure:"server"`
}

// Sandbox gateways substituted when a channel's is_sandbox switch is set.
const (
	alipaySandboxGateway = "https://openapi.alipaydev.com/gateway.do"
	wechatSandboxGateway = "https://api.mch.weixin.qq.com/sandboxnew"
)

// AlipayConfig holds the merchant credentials of the Alipay open platform.
// Keys may be supplied inline (PEM or bare base64) or by file path; the
// *_path variant wins when both are set.
type AlipayConfig struct {
	AppID             string `mapstructure:"app_id" validate:"required"`
	GatewayURL        string `mapstructure:"gateway_url" validate:"omitempty,url"`
	IsSandbox         bool   `mapstructure:"is_sandbox"`
	SignType          string `mapstructure:"sign_type" validate:"omitempty,oneof=RSA RSA2"`
	AppPrivateKey     string `mapstructure:"app_private_key"`
	AppPrivateKeyPath string `mapstructure:"app_private_key_path"`
	PublicKey         string `mapstructure:"public_key"`
	PublicKeyPath     string `mapstructure:"public_key_path"`
	NotifyURL         string `mapstructure:"notify_url" validate:"omitempty,url"`
	ReturnURL         string `mapstructure:"return_url" validate:"omitempty,url"`
}

// WechatConfig holds WeChat Pay v2 merchant credentials. The client
// certificate is only needed for the operations WeChat gates behind mutual
// TLS, refunds in particular.
type WechatConfig struct {
	AppID      string `mapstructure:"app_id" validate:"required"`
	MchID      string `mapstructure:"mch_id" validate:"required"`
	APIKey     string `mapstructure:"api_key" validate:"required"`
	GatewayURL string `mapstructure:"gateway_url" validate:"omitempty,url"`
	IsSandbox  bool   `mapstructure:"is_sandbox"`
	SignType   string `mapstructure:"sign_type" validate:"omitempty,oneof=MD5 HMAC-SHA256"`
	NotifyURL  string `mapstructure:"notify_url" validate:"omitempty,url"`
	CertPEM    string `mapstructure:"cert_pem"`
	CertPath   string `mapstructure:"cert_path"`
}

// QQConfig holds QQ Wallet merchant credentials. The wire conventions track
// WeChat v2.
type QQConfig struct {
	AppID      string `mapstructure:"app_id" validate:"required"`
	MchID      string `mapstructure:"mch_id" validate:"required"`
	APIKey     string `mapstructure:"api_key" validate:"required"`
	GatewayURL string `mapstructure:"gateway_url" validate:"omitempty,url"`
	NotifyURL  string `mapstructure:"notify_url" validate:"omitempty,url"`
}

// SaobeiConfig holds Saobei (LCSW) merchant credentials.
type SaobeiConfig struct {
	MerchantNo  string `mapstructure:"merchant_no" validate:"required"`
	TerminalID  string `mapstructure:"terminal_id" validate:"required"`
	AccessToken string `mapstructure:"access_token" validate:"required"`
	GatewayURL  string `mapstructure:"gateway_url" validate:"omitempty,url"`
	NotifyURL   string `mapstructure:"notify_url" validate:"omitempty,url"`
}

// ServerConfig controls the optional HTTP facade.
type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	APIKey string `mapstructure:"api_key"`
}

var validate = validator.New()

// Load reads configuration from path (YAML, JSON, or TOML by extension) and
// the environment. Environment variables use the UNIPAY_ prefix with "_"
// for section separators, for example UNIPAY_WECHAT_API_KEY, and take
// precedence over the file. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("UNIPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &payerr.ConfigError{Key: path, Reason: "read config file: " + err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &payerr.ConfigError{Reason: "unmarshal config: " + err.Error()}
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("alipay.gateway_url", "https://openapi.alipay.com/gateway.do")
	v.SetDefault("alipay.sign_type", "RSA2")
	v.SetDefault("wechat.gateway_url", "https://api.mch.weixin.qq.com")
	v.SetDefault("wechat.sign_type", "MD5")
	v.SetDefault("qq.gateway_url", "https://qpay.qq.com")
	v.SetDefault("saobei.gateway_url", "https://pay.lcsw.cn/lcsw")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("server.addr", ":8080")
}

// ValidateChannel checks one channel section's struct tags. Sections are
// validated on demand rather than all at once, so an operator configuring
// only WeChat is not forced to supply Alipay credentials.
func ValidateChannel(section any) error {
	if err := validate.Struct(section); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			return &payerr.ConfigError{
				Key:    strings.ToLower(verrs[0].StructNamespace()),
				Reason: "failed " + verrs[0].Tag() + " validation",
			}
		}
		return &payerr.ConfigError{Reason: err.Error()}
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// Gateway returns the effective gateway URL; the sandbox switch overrides
// whatever gateway_url is configured.
func (c *AlipayConfig) Gateway() string {
	if c.IsSandbox {
		return alipaySandboxGateway
	}
	return c.GatewayURL
}

// Gateway returns the effective gateway base URL; the sandbox switch
// overrides whatever gateway_url is configured.
func (c *WechatConfig) Gateway() string {
	if c.IsSandbox {
		return wechatSandboxGateway
	}
	return c.GatewayURL
}

// CertContent returns the merchant TLS client certificate. The certificate
// is optional; both return values are zero when none is configured.
func (c *WechatConfig) CertContent() (string, error) {
	if c.CertPEM == "" && c.CertPath == "" {
		return "", nil
	}
	return keyText(c.CertPEM, c.CertPath, "wechat.cert_pem")
}

// PrivateKey returns the Alipay application private key, reading the file
// variant when a path is configured.
func (c *AlipayConfig) PrivateKey() (string, error) {
	return keyText(c.AppPrivateKey, c.AppPrivateKeyPath, "alipay.app_private_key")
}

// AlipayPublicKey returns the platform public key used to verify responses
// and notifications.
func (c *AlipayConfig) AlipayPublicKey() (string, error) {
	return keyText(c.PublicKey, c.PublicKeyPath, "alipay.public_key")
}

// keyText resolves inline-or-file key material. A configured path wins over
// inline text.
func keyText(inline, path, key string) (string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", &payerr.ConfigError{Key: key + "_path", Reason: "read key file: " + err.Error()}
		}
		return string(b), nil
	}
	if inline == "" {
		return "", &payerr.ConfigError{Key: key, Reason: "no key material configured"}
	}
	return inline, nil
}

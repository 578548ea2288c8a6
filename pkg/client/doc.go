// Package client defines the provider-neutral payment operation interface
// and the retrying HTTP transport the provider clients share.
//
// Provider packages (alipay, wechat, saobei) implement PaymentClient over
// an HTTPClient; applications that only need the common operations hold the
// interface and pick the provider at assembly time.
package client

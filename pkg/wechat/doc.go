// Package wechat implements the WeChat Pay v2 merchant operations: unified
// order creation, order query and close, refunds and refund query. Requests
// and responses travel as flat XML documents signed with the merchant API
// key (MD5 by default, HMAC-SHA256 by configuration).
package wechat

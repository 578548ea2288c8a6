// Package alipay implements the Alipay open-platform merchant operations.
//
// Hosted operations (TradePagePay, TradeWapPay, TradeAppPay) only assemble
// and sign the parameter set; the user's device carries it to Alipay.
// Gateway operations (TradeCreate, TradeQuery, TradeClose, TradeCancel,
// TradeRefund, TradeRefundQuery) post the signed envelope and unwrap the
// "<method>_response" node of the JSON reply, verifying the platform
// signature when a platform public key is configured.
package alipay

// Package payerr defines the error taxonomy shared by the unipay-go
// packages.
//
// Configuration-time errors (UnsupportedAlgorithmError,
// InvalidKeyMaterialError, ConfigError) surface immediately when a signer or
// client is constructed. Notification-time errors (FormatError,
// SignatureError, CallbackFailureError) terminate the verification state
// machine but are never allowed to propagate as transport failures: the
// verifier always answers the provider with the channel's failure
// acknowledgement body.
//
// All types are plain error structs intended for use with errors.As:
//
//	var sigErr *payerr.SignatureError
//	if errors.As(err, &sigErr) {
//	    log.Warn("rejected notification", zap.String("channel", sigErr.Channel))
//	}
package payerr

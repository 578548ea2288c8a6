// Package notify verifies asynchronous payment notifications and produces
// the acknowledgement each channel's provider expects.
//
// A notification moves through five stages: Received (raw bytes), Parsed
// (fields in a container), Verified (signature checked against the
// reconstructed signing string), Dispatched (business callback invoked),
// and Acknowledged (channel-specific body produced). Any stage may reject;
// every rejection still yields the channel's failure acknowledgement so the
// provider re-delivers later.
//
//	v, err := notify.NewVerifier(notify.ChannelWechat, md5Signer, apiKey)
//	if err != nil {
//	    return err
//	}
//
//	ack, err := v.Process(body, func(fields map[string]string) bool {
//	    return orders.MarkPaid(fields["out_trade_no"])
//	})
//	// write ack to the provider with v.ContentType(), log err locally
//
// Channel conventions (wire format, canonicalization profile, signature
// field, acknowledgement bodies) live in a small value table; see
// ChannelSpec. The verifier itself is channel-agnostic.
package notify

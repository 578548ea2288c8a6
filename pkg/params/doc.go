// Package params provides the ordered parameter containers that every
// payment channel builds its requests from and parses its notifications
// into.
//
// # BodyMap
//
// BodyMap is an insertion-ordered key/value container with automatic
// filtering of nil and empty-string values:
//
//	bm := params.NewBodyMap().
//	    Set("out_trade_no", "20260825001").
//	    Set("total_amount", "0.01").
//	    Set("subject", "")  // empty: never stored
//
//	bm.ToQuery() // "out_trade_no=20260825001&total_amount=0.01"
//
// ToQuery and ToJSON are transport encodings and keep insertion order. The
// signing text is a separate concern handled by the canonical package, which
// sorts and filters fields per channel profile.
//
// # XMLMap
//
// XMLMap serializes to the flat tagged documents used by WeChat-style
// channels, wrapping any value that contains markup-reserved characters in
// CDATA sections:
//
//	xm := params.NewXMLMap("xml").
//	    Set("return_code", "SUCCESS").
//	    Set("return_msg", "OK")
//	doc := xm.Serialize()
//
//	parsed, err := params.ParseXML(doc, "xml")
//
// ParseXML is the exact inverse of Serialize for values free of null bytes,
// including values containing "]]>".
package params

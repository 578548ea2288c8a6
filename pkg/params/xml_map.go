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

package params

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

// DefaultRootTag is the document root used by WeChat-style XML channels.
const DefaultRootTag = "xml"

// XMLMap is an ordered string/string container that serializes to a flat
// tagged document of the kind WeChat-style payment channels exchange:
//
//	<xml><return_code>SUCCESS</return_code><return_msg>OK</return_msg></xml>
//
// Values containing markup-reserved characters are wrapped in CDATA sections
// so arbitrary provider text (merchant names, addresses) survives a
// serialize/parse round trip.
type XMLMap struct {
	rootTag string
	keys    []string
	values  map[string]string
}

// NewXMLMap creates an empty XMLMap with the given root tag. An empty
// rootTag means DefaultRootTag.
func NewXMLMap(rootTag string) *XMLMap {
	if rootTag == "" {
		rootTag = DefaultRootTag
	}
	return &XMLMap{rootTag: rootTag, values: make(map[string]string)}
}

// RootTag returns the document root tag.
func (xm *XMLMap) RootTag() string { return xm.rootTag }

// Set stores value under key unless value is empty, mirroring BodyMap.Set.
func (xm *XMLMap) Set(key, value string) *XMLMap {
	if value == "" {
		return xm
	}
	if _, exists := xm.values[key]; !exists {
		xm.keys = append(xm.keys, key)
	}
	xm.values[key] = value
	return xm
}

// Get returns the stored value for key, or the empty string when absent.
func (xm *XMLMap) Get(key string) string { return xm.values[key] }

// Contains reports whether key is present.
func (xm *XMLMap) Contains(key string) bool {
	_, ok := xm.values[key]
	return ok
}

// Len returns the number of stored entries.
func (xm *XMLMap) Len() int { return len(xm.keys) }

// Keys returns the stored keys in insertion order.
func (xm *XMLMap) Keys() []string {
	out := make([]string, len(xm.keys))
	copy(out, xm.keys)
	return out
}

// ToBodyMap flattens the entries into a BodyMap for canonicalization and
// signing, preserving insertion order.
func (xm *XMLMap) ToBodyMap() *BodyMap {
	bm := NewBodyMap()
	for _, k := range xm.keys {
		bm.Set(k, xm.values[k])
	}
	return bm
}

// Serialize renders the document as a single line with one child element per
// key, in insertion order.
func (xm *XMLMap) Serialize() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(xm.rootTag)
	sb.WriteByte('>')
	for _, k := range xm.keys {
		sb.WriteByte('<')
		sb.WriteString(k)
		sb.WriteByte('>')
		writeXMLValue(&sb, xm.values[k])
		sb.WriteString("</")
		sb.WriteString(k)
		sb.WriteByte('>')
	}
	sb.WriteString("</")
	sb.WriteString(xm.rootTag)
	sb.WriteByte('>')
	return sb.String()
}

// writeXMLValue emits v raw when it contains no markup-reserved characters,
// and as one or more CDATA sections otherwise. A literal "]]>" inside v is
// handled by splitting it across adjacent CDATA sections. Round-tripping is
// exact up to XML line-ending normalization: the parser folds "\r\n" and
// "\r" to "\n", inside CDATA too, so carriage returns do not survive
// ParseXML.
func writeXMLValue(sb *strings.Builder, v string) {
	if !strings.ContainsAny(v, "<>&'\"") {
		sb.WriteString(v)
		return
	}
	sb.WriteString("<![CDATA[")
	sb.WriteString(strings.ReplaceAll(v, "]]>", "]]]]><![CDATA[>"))
	sb.WriteString("]]>")
}

// ParseXML parses a flat tagged document into an XMLMap. It fails with a
// *payerr.FormatError when text is not well-formed XML or the root tag does
// not match rootTag. CDATA sections are unescaped back to raw text.
func ParseXML(text, rootTag string) (*XMLMap, error) {
	if rootTag == "" {
		rootTag = DefaultRootTag
	}
	dec := xml.NewDecoder(strings.NewReader(text))

	root, err := nextStartElement(dec)
	if err != nil {
		return nil, &payerr.FormatError{Reason: "document has no root element", Err: err}
	}
	if root.Name.Local != rootTag {
		return nil, &payerr.FormatError{
			Reason: "unexpected root element <" + root.Name.Local + ">, want <" + rootTag + ">",
		}
	}

	xm := NewXMLMap(rootTag)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &payerr.FormatError{Reason: "unterminated root element"}
		}
		if err != nil {
			return nil, &payerr.FormatError{Reason: "malformed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			key := t.Name.Local
			value, err := readElementText(dec, key)
			if err != nil {
				return nil, err
			}
			xm.Set(key, value)
		case xml.EndElement:
			if t.Name.Local == rootTag {
				return xm, nil
			}
		}
	}
}

// nextStartElement skips prolog tokens until the first start element.
func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// readElementText collects the character data of a leaf element up to its
// end tag. Nested elements inside a leaf are rejected: the wire format is a
// flat document.
func readElementText(dec *xml.Decoder, key string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", &payerr.FormatError{Reason: "malformed XML inside <" + key + ">", Err: err}
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			return "", &payerr.FormatError{Reason: "nested element <" + t.Name.Local + "> inside <" + key + ">"}
		}
	}
}

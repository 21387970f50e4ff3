// Package encoding normalizes the text of scene documents before XML
// decoding: byte order marks, declared legacy charsets and URI paths.
package encoding

import (
	"encoding/xml"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF8Reader strips a leading byte order mark from r. UTF-16 input with a
// BOM is transcoded to UTF-8; input without a BOM passes through unchanged.
func UTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// UTF8Bytes is UTF8Reader for an in-memory document.
// Returns the input if the transform fails.
func UTF8Bytes(data []byte) []byte {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return data
	}
	return out
}

// NewXMLDecoder returns a decoder over the BOM-normalized stream that honors
// the encoding named in the XML declaration.
func NewXMLDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(UTF8Reader(r))
	d.CharsetReader = readerForLabel
	return d
}

// readerForLabel converts a declared charset to UTF-8. UTF-16 labels were
// already handled through the BOM.
func readerForLabel(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// NormalizePath turns an image or document URI into a slash-separated
// relative or absolute path: the file scheme is dropped, percent escapes
// are decoded and backslashes become slashes.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	if rest, ok := strings.CutPrefix(p, "file://"); ok {
		p = rest
		// file:///C:/x.png keeps the drive letter without the leading slash.
		if len(p) > 3 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return p
}

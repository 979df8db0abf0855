// Package textdecode converts response bodies in other encodings to UTF-8.
package textdecode

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Body converts b to UTF-8.
//
// The BOM has priority, and the charset parameter of contentType is used if b has no BOM.
// A body with neither of them, or with a charset this package does not know, is returned as-is.
func Body(b []byte, contentType string) ([]byte, error) {
	if rest, enc := bomOverride(b); enc != nil {
		return enc.NewDecoder().Bytes(rest)
	}

	enc := charsetOf(contentType)
	if enc == nil {
		return b, nil
	}
	return enc.NewDecoder().Bytes(b)
}

// bomOverride returns the encoding that the BOM of b means, and b without the BOM.
// The encoding is nil if b has no BOM.
func bomOverride(b []byte) ([]byte, encoding.Encoding) {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:], unicode.UTF8
	}
	if len(b) >= 2 {
		if b[0] == 0xFE && b[1] == 0xFF {
			return b[2:], unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		}
		if b[0] == 0xFF && b[1] == 0xFE {
			return b[2:], unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		}
	}
	return b, nil
}

// charsetOf returns the encoding in the charset parameter of a Content-Type header.
// It returns nil if the charset is not set, unknown, or UTF-8.
func charsetOf(contentType string) encoding.Encoding {
	if contentType == "" {
		return nil
	}

	// A broken header is the same as no header.
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}

	enc, err := htmlindex.Get(strings.TrimSpace(params["charset"]))
	if err != nil {
		return nil
	}
	if n, _ := htmlindex.Name(enc); n == "utf-8" {
		return nil
	}
	return enc
}

package scribd

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// DecodeText turns a downloaded payload into text.
//
// Valid UTF-8 is returned as is, minus a leading BOM. A UTF-16 BOM switches
// to UTF-16 decoding. Anything else is decoded leniently with invalid bytes
// replaced by U+FFFD, and lossy reports that replacement happened.
func DecodeText(b []byte) (text string, lossy bool) {
	b = bytes.TrimPrefix(b, bomUTF8)

	utf16 := bytes.HasPrefix(b, bomUTF16BE) || bytes.HasPrefix(b, bomUTF16LE)
	if !utf16 && utf8.Valid(b) {
		return string(b), false
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), true
	}
	return string(out), !utf16
}

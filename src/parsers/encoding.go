package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// ErrEncodingDetection means no candidate encoding produced text containing
// any of the expected header tokens. Fatal for the file.
var ErrEncodingDetection = errors.New("could not recover a plausible text encoding")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Export tools emit UTF-8, Shift_JIS or EUC-JP depending on version and
// platform. Tried in this order; the first decoding whose output contains a
// known header token wins.
var encodingCandidates = []struct {
	name string
	enc  encoding.Encoding // nil means plain UTF-8
}{
	{"utf-8", nil},
	{"shift_jis", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
}

// Tokens expected somewhere in any valid export's header or rows. Decoding
// with the wrong charset produces mojibake that contains none of these, which
// is how silent misdecodes are caught.
var plausibilityTokens = []string{
	"約定日",
	"受渡日",
	"銘柄",
	"ファンド",
	"取引",
	"数量",
}

// DecodeExport recovers correctly decoded text from raw export bytes. It
// returns the decoded text and the name of the accepted encoding.
func DecodeExport(raw []byte) (string, string, error) {
	for _, candidate := range encodingCandidates {
		var text string
		if candidate.enc == nil {
			trimmed := bytes.TrimPrefix(raw, utf8BOM)
			if !utf8.Valid(trimmed) {
				continue
			}
			text = string(trimmed)
		} else {
			decoded, err := candidate.enc.NewDecoder().Bytes(raw)
			if err != nil {
				continue
			}
			text = string(decoded)
		}
		if containsKnownToken(text) {
			return text, candidate.name, nil
		}
	}
	return "", "", fmt.Errorf("%w (tried %d encodings)", ErrEncodingDetection, len(encodingCandidates))
}

func containsKnownToken(text string) bool {
	for _, token := range plausibilityTokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

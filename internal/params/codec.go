package params

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// formOverrides adjusts url.QueryEscape output to the browser profile.
// QueryEscape already escapes '!', '\'', '(' and ')', escapes '*' (which the
// browser keeps literal) and keeps '~' (which the browser escapes).
// Every '%' in QueryEscape output starts a three-byte escape, so these
// patterns cannot match across escape boundaries.
var formOverrides = strings.NewReplacer(
	"%2A", "*",
	"~", "%7E",
	"%00", "\x00",
)

// Encode percent-encodes text for use as a query-string key or value.
//
// Bytes outside A-Z a-z 0-9 - _ . * are encoded as %XX (uppercase hex),
// space becomes '+', and U+0000 is emitted as a literal NUL byte.
//
//	Encode("hello world!") // "hello+world%21"
func Encode(text string) string {
	return formOverrides.Replace(url.QueryEscape(text))
}

// Decode reverses Encode: '+' becomes a space, then %XX escapes are decoded.
// It returns a *ParseError wrapping ErrMalformedEscape if a '%' is not
// followed by two hex digits or if the result is not valid UTF-8.
func Decode(text string) (string, error) {
	out, err := url.QueryUnescape(text)
	if err != nil {
		return "", &ParseError{
			Code:   CodeMalformedEscape,
			Input:  text,
			Offset: badEscapeOffset(text),
			Err:    fmt.Errorf("%w: %v", ErrMalformedEscape, err),
		}
	}
	if !utf8.ValidString(out) {
		return "", &ParseError{
			Code:   CodeMalformedEscape,
			Input:  text,
			Offset: -1,
			Err:    fmt.Errorf("%w: decoded text is not valid UTF-8", ErrMalformedEscape),
		}
	}
	return out, nil
}

// wellFormed replaces each run of invalid UTF-8 bytes with U+FFFD. Stored
// keys and values are always valid UTF-8, so their %XX escapes decode back.
func wellFormed(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// badEscapeOffset returns the byte offset of the first '%' that does not
// start a valid escape, or -1.
func badEscapeOffset(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return i
		}
		i += 2
	}
	return -1
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// Package fingerprint builds the cache keys used by the remote Cache
// Structure backend, reusing the same sanitize-then-hash shape the
// teacher used for its WFS layer keys.
package fingerprint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/geocache/stc/internal/stref"
)

// RemoteKey builds the Redis key a remote Cache Structure backend
// stores an entry under: payload type, the caller's opaque fingerprint
// (an operator-graph hash), and a digest of the spatio-temporal
// reference so distinct windows under the same fingerprint occupy
// distinct keys. Deliberately keyed on STRef alone (not the full QR,
// which may also carry a resolution): the remote backend matches by
// exact key, not containment, so Put and the Get that later looks the
// entry up must derive the key from the same STRef.
func RemoteKey(payloadType, fp string, ref stref.STRef) string {
	fpNorm := sanitize(strings.TrimSpace(fp))
	digest := Digest(ref.String())
	return fmt.Sprintf("stc:%s:%s:q=%016x", sanitize(payloadType), fpNorm, digest)
}

// Digest is a fast, non-cryptographic hash used for cache-key
// suffixing.
func Digest(s string) uint64 {
	return xxhash.Sum64String(s)
}

var punctSpacing = regexp.MustCompile(`\s*([=<>!.,()])\s*`)

func sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = collapseWhitespace(s)
	s = punctSpacing.ReplaceAllString(s, "$1")

	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '=':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wasWS := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !wasWS {
				b.WriteByte(' ')
				wasWS = true
			}
			continue
		}
		b.WriteRune(r)
		wasWS = false
	}
	return strings.TrimSpace(b.String())
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || unicode.IsDigit(r)
}

package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transliterations maps runes without a canonical decomposition to ASCII.
var transliterations = map[rune]string{
	'ß': "ss", 'ẞ': "SS",
	'Æ': "AE", 'æ': "ae",
	'Œ': "OE", 'œ': "oe",
	'Ø': "O", 'ø': "o",
	'Ł': "L", 'ł': "l",
	'Đ': "D", 'đ': "d",
	'Ð': "D", 'ð': "d",
	'Þ': "Th", 'þ': "th",
	'ı': "i", 'ŀ': "l",
	'‘': "'", '’': "'", '‚': "'", '‛': "'",
	'“': "\"", '”': "\"", '„': "\"", '‟': "\"",
	'«': "\"", '»': "\"", '‹': "'", '›': "'",
	'‐': "-", '‑': "-", '‒': "-", '–': "-", '—': "-", '―': "-", '−': "-",
	'…': "...", '•': "*", '·': ".",
	'\u00a0': " ", '\u2007': " ", '\u2009': " ", '\u202f': " ",
	'\u200b': "", '\u200d': "", '\ufeff': "",
}

// Sanitize replaces the runes of s that f cannot render. Each unsupported
// rune is transliterated, reduced to its base letters (é -> e), or dropped;
// supported runes are kept untouched. The result is always renderable by f.
func Sanitize(s string, f *Font) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	var b strings.Builder
	for _, r := range s {
		if f.Supports(r) {
			b.WriteRune(r)
			continue
		}
		if t, ok := transliterations[r]; ok && f.Check(t) == nil {
			b.WriteString(t)
			continue
		}
		base, _, err := transform.String(stripMarks, string(r))
		if err == nil && base != string(r) {
			for _, br := range base {
				if f.Supports(br) {
					b.WriteRune(br)
				}
			}
		}
	}
	return b.String()
}

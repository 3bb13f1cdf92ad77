// Package markup strips and inspects the markup found in game-mod strings:
// HTML-style angle-bracket tags, BBCode-style bracket tags and Markdown
// emphasis.
package markup

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// bbcodeTags are the bracket tag names recognized as markup. Anything else
// in brackets, such as the key hint [Enter], is text.
var bbcodeTags = map[string]bool{
	"b": true, "i": true, "u": true, "s": true, "strike": true,
	"sub": true, "sup": true, "url": true, "email": true, "img": true,
	"color": true, "size": true, "font": true, "quote": true, "code": true,
	"noparse": true, "spoiler": true, "list": true, "olist": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"left": true, "center": true, "right": true, "hr": true, "line": true,
	"table": true, "tr": true, "td": true, "th": true,
}

// bracketTagName returns the lowercased name of a reBracketTag match and
// whether it is a known tag.
func bracketTagName(tag string) (string, bool) {
	m := reBracketTag.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	name := strings.ToLower(m[1])
	return name, bbcodeTags[name]
}

var (
	// [b], [/b], [url=https://...], [color=#ff0000], [h1]
	// A letter must follow the bracket so [%s], [%d] and [0] are never tags.
	// Matches are then checked against bbcodeTags.
	reBracketTag = regexp.MustCompile(`\[/?([A-Za-z][A-Za-z0-9]*)(?:=[^\[\]]*)?\]`)

	reBold       = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`(?s)\*([^*]+?)\*`)
	reUnderscore = regexp.MustCompile(`(?s)(^|[^\p{L}\p{N}_])_([^_]+?)_($|[^\p{L}\p{N}_])`)
	reCode       = regexp.MustCompile("`([^`]*)`")
)

// Strip removes angle-bracket tags, bracket tags and Markdown emphasis
// markers from s, keeping the text they wrap. Bracketed printf-style
// placeholders such as [%s] are left untouched.
//
// Stripping repeats until the text stops changing, so nested or
// reassembled tags ("<<b>b>") are removed too and Strip(Strip(s)) == Strip(s).
func Strip(s string) string {
	for {
		next := StripMarkdown(StripBracketTags(StripTags(s)))
		if next == s {
			return s
		}
		s = next
	}
}

// StripTags removes HTML/XML tags, comments and doctypes. Text between tags
// is kept byte for byte; entities are not decoded.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				// An unterminated tag at the end is text ("Press <Enter").
				b.Write(z.Raw())
				return b.String()
			}
			// The tokenizer only fails on reader errors, which a
			// strings.Reader never produces.
			return s
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// StripBracketTags removes BBCode-style tags such as [b], [/b] and
// [url=...]. Bracketed words that are not BBCode tags are kept.
func StripBracketTags(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	return reBracketTag.ReplaceAllStringFunc(s, func(tag string) string {
		if _, ok := bracketTagName(tag); ok {
			return ""
		}
		return tag
	})
}

// StripMarkdown removes **bold**, *italic*, _italic_ and `code` markers.
func StripMarkdown(s string) string {
	if !strings.ContainsAny(s, "*_`") {
		return s
	}
	s = reBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = reUnderscore.ReplaceAllString(s, "$1$2$3")
	s = reCode.ReplaceAllString(s, "$1")
	return s
}

// TagSignature returns the tags of s in a comparable form: angle-bracket
// tags first, in document order ("b", "/b", "br/"), then bracket tags
// lowercased without their arguments ("[color]", "[/color]").
func TagSignature(s string) []string {
	var sig []string

	if strings.Contains(s, "<") {
		z := html.NewTokenizer(strings.NewReader(s))
	loop:
		for {
			switch z.Next() {
			case html.ErrorToken:
				break loop
			case html.StartTagToken:
				name, _ := z.TagName()
				sig = append(sig, string(name))
			case html.EndTagToken:
				name, _ := z.TagName()
				sig = append(sig, "/"+string(name))
			case html.SelfClosingTagToken:
				name, _ := z.TagName()
				sig = append(sig, string(name)+"/")
			}
		}
	}

	for _, tag := range reBracketTag.FindAllString(s, -1) {
		name, ok := bracketTagName(tag)
		if !ok {
			continue
		}
		if strings.HasPrefix(tag, "[/") {
			name = "/" + name
		}
		sig = append(sig, "["+name+"]")
	}

	return sig
}

// SameTags reports whether a and b carry the same tag signature.
func SameTags(a, b string) bool {
	sa, sb := TagSignature(a), TagSignature(b)
	if len(sa) != len(sb) {
		return false
	}
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

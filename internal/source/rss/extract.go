package rss

import (
	"regexp"
	"strconv"
	"strings"
)

// Item is one entry pulled out of an RSS or Atom document.
type Item struct {
	Title       string
	Link        string
	Date        string // raw pubDate/updated text; date parsing happens later
	Description string
}

// Feeds here are pattern-matched, not parsed: job-board XML is frequently
// invalid (stray ampersands, unclosed tags) and a strict decoder would turn
// one bad byte into zero sources. Anything the patterns can't segment just
// yields fewer items.
var (
	itemRe  = regexp.MustCompile(`(?is)<item[\s>].*?</item>|<item>.*?</item>`)
	entryRe = regexp.MustCompile(`(?is)<entry[\s>].*?</entry>|<entry>.*?</entry>`)

	titleRe    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	linkTagRe  = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	linkHrefRe = regexp.MustCompile(`(?is)<link[^>]*href=["']([^"']+)["']`)
	pubDateRe  = regexp.MustCompile(`(?is)<pubDate[^>]*>(.*?)</pubDate>`)
	updatedRe  = regexp.MustCompile(`(?is)<updated[^>]*>(.*?)</updated>`)
	descRe     = regexp.MustCompile(`(?is)<description[^>]*>(.*?)</description>`)
	summaryRe  = regexp.MustCompile(`(?is)<summary[^>]*>(.*?)</summary>`)

	cdataRe  = regexp.MustCompile(`(?is)<!\[CDATA\[(.*?)\]\]>`)
	numEntRe = regexp.MustCompile(`&#(x?[0-9a-fA-F]+);`)
	tagStrip = regexp.MustCompile(`<[^>]*>`)
)

// Extract segments a feed document into items and pulls out the fields the
// normalizer needs. Malformed input degrades to fewer (or zero) items.
func Extract(doc string, maxItems int) []Item {
	blocks := itemRe.FindAllString(doc, -1)
	if len(blocks) == 0 {
		blocks = entryRe.FindAllString(doc, -1)
	}
	if maxItems > 0 && len(blocks) > maxItems {
		blocks = blocks[:maxItems]
	}

	out := make([]Item, 0, len(blocks))
	for _, b := range blocks {
		it := Item{
			Title:       field(b, titleRe),
			Link:        link(b),
			Date:        date(b),
			Description: description(b),
		}
		if it.Title == "" && it.Link == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

func link(block string) string {
	if m := linkHrefRe.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return field(block, linkTagRe)
}

func date(block string) string {
	if d := field(block, pubDateRe); d != "" {
		return d
	}
	return field(block, updatedRe)
}

func description(block string) string {
	d := field(block, descRe)
	if d == "" {
		d = field(block, summaryRe)
	}
	return strings.TrimSpace(tagStrip.ReplaceAllString(d, " "))
}

func field(block string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return Decode(m[1])
}

// Decode strips CDATA wrappers and resolves the five named XML entities plus
// numeric character references.
func Decode(s string) string {
	if m := cdataRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = numEntRe.ReplaceAllStringFunc(s, func(ref string) string {
		body := ref[2 : len(ref)-1]
		base := 10
		if body[0] == 'x' || body[0] == 'X' {
			body = body[1:]
			base = 16
		}
		n, err := strconv.ParseInt(body, base, 32)
		if err != nil || n <= 0 {
			return ref
		}
		return string(rune(n))
	})
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&", // last so "&amp;lt;" decodes to "&lt;", not "<"
	)
	return strings.TrimSpace(r.Replace(s))
}

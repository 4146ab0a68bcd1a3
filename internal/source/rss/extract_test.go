package rss

import "testing"

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Remote Jobs</title>
<item>
<title><![CDATA[Acme Corp: Data Analyst]]></title>
<link>https://example.com/jobs/1</link>
<pubDate>Mon, 24 Aug 2026 10:00:00 +0000</pubDate>
<description><![CDATA[<p>SQL &amp; dashboards, 1-3 years</p>]]></description>
</item>
<item>
<title>R&amp;D Analyst &lt;Senior&gt;</title>
<link>https://example.com/jobs/2</link>
<pubDate>Tue, 25 Aug 2026 08:30:00 +0000</pubDate>
<description>Reporting &quot;insights&quot; role</description>
</item>
</channel>
</rss>`

const sampleAtom = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<entry>
<title>BI Developer</title>
<link href="https://example.com/atom/1"/>
<updated>2026-08-26T12:00:00Z</updated>
<summary>Power BI dashboards</summary>
</entry>
</feed>`

func TestExtract_RSSItems(t *testing.T) {
	items := Extract(sampleRSS, 10)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Acme Corp: Data Analyst" {
		t.Errorf("CDATA title not unwrapped: %q", first.Title)
	}
	if first.Link != "https://example.com/jobs/1" {
		t.Errorf("link: %q", first.Link)
	}
	if first.Date != "Mon, 24 Aug 2026 10:00:00 +0000" {
		t.Errorf("date: %q", first.Date)
	}
	if first.Description != "SQL & dashboards, 1-3 years" {
		t.Errorf("description should be tag-stripped and decoded: %q", first.Description)
	}

	second := items[1]
	if second.Title != "R&D Analyst <Senior>" {
		t.Errorf("entities not decoded: %q", second.Title)
	}
	if second.Description != `Reporting "insights" role` {
		t.Errorf("quot not decoded: %q", second.Description)
	}
}

func TestExtract_AtomEntries(t *testing.T) {
	items := Extract(sampleAtom, 10)
	if len(items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(items))
	}
	if items[0].Link != "https://example.com/atom/1" {
		t.Errorf("href-style link: %q", items[0].Link)
	}
	if items[0].Date != "2026-08-26T12:00:00Z" {
		t.Errorf("updated date: %q", items[0].Date)
	}
	if items[0].Description != "Power BI dashboards" {
		t.Errorf("summary: %q", items[0].Description)
	}
}

func TestExtract_MalformedDegradesToZero(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     "",
		"not_xml":   "this is not a feed at all",
		"html_page": "<html><body><h1>404</h1></body></html>",
		"no_items":  "<rss><channel><title>empty</title></channel></rss>",
	} {
		if got := Extract(doc, 10); len(got) != 0 {
			t.Errorf("%s: expected 0 items, got %d", name, len(got))
		}
	}
}

func TestExtract_MaxItemsCap(t *testing.T) {
	doc := ""
	for i := 0; i < 50; i++ {
		doc += "<item><title>Job</title><link>https://example.com/" + string(rune('a'+i%26)) + "</link></item>"
	}
	if got := Extract(doc, 30); len(got) != 30 {
		t.Errorf("expected soft cap at 30, got %d", len(got))
	}
}

func TestDecode_NumericReferences(t *testing.T) {
	if got := Decode("caf&#233; &#x41;nalyst"); got != "café Analyst" {
		t.Errorf("numeric refs: %q", got)
	}
}

func TestDecode_DoubleEscapedAmpersand(t *testing.T) {
	// "&amp;lt;" must decode to "&lt;", not "<".
	if got := Decode("a &amp;lt; b"); got != "a &lt; b" {
		t.Errorf("got %q", got)
	}
}

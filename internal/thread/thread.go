// CLAUDE:SUMMARY Hiring-thread page parser: comment rows in, qualifying job Postings out.
// Package thread extracts job postings from "Who is hiring?" thread pages.
//
// Extraction is a pure function of the page markup: no network, no disk.
// Each top-level comment row is inspected in isolation, so one malformed
// row never disqualifies its neighbours.
package thread

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/hazyhaar/embauche/extract"
)

// Posting is one job posting extracted from a hiring thread.
type Posting struct {
	ID           string `json:"id"`
	Author       string `json:"author"`
	Timestamp    string `json:"timestamp"`
	Text         string `json:"text"`
	TextMarkdown string `json:"text_markdown,omitempty"`
	ScrapedAt    string `json:"scraped_at"`
	ThreadID     string `json:"thread_id"`
}

// Thread page markup, as served by news.ycombinator.com:
//
//	<tr class="athing comtr" id="44434894"> ... <span class="comhead">
//	  <a class="hnuser">author</a> <span class="age" title="2025-07-01T15:03:12 ...">
//	</span> ... <div class="comment"> posting body </div> ... </tr>
const (
	rowSelector    = "tr.athing.comtr"
	bodySelector   = "div.comment"
	authorSelector = "a.hnuser"
	ageSelector    = "span.age"
)

// Options configures posting extraction.
type Options struct {
	// MinTextLen is the minimum visible text length, counted in runes,
	// for a comment to qualify as a job posting. Shorter comments are
	// replies and banter. Default: 100.
	MinTextLen int
	// BaseURL resolves relative links during markdown conversion.
	// Default: https://news.ycombinator.com.
	BaseURL string
}

func (o *Options) defaults() {
	if o.MinTextLen <= 0 {
		o.MinTextLen = 100
	}
	if o.BaseURL == "" {
		o.BaseURL = "https://news.ycombinator.com"
	}
}

// Parser extracts job postings from hiring thread pages.
type Parser struct {
	opts      Options
	sanitizer *bluemonday.Policy
	md        *converter.Converter
}

// NewParser creates a Parser.
func NewParser(opts Options) *Parser {
	opts.defaults()
	return &Parser{
		opts:      opts,
		sanitizer: bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Parse extracts the comments of a thread page that qualify as job
// postings, in document order. A row with no comment body, or whose text
// is shorter than MinTextLen, is skipped. A missing author becomes
// "Unknown" and a missing age title an empty timestamp; neither
// disqualifies the row.
func (p *Parser) Parse(page []byte, threadID string, scrapedAt time.Time) []Posting {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		// html.Parse never fails on an in-memory reader; malformed markup
		// just yields whatever rows survived.
		return []Posting{}
	}

	stamp := scrapedAt.UTC().Format(time.RFC3339)
	postings := []Posting{}
	for _, row := range extract.Select(doc, rowSelector) {
		body := extract.First(row, bodySelector)
		if body == nil {
			continue
		}
		text := extract.CleanText(extract.Text(body))
		if utf8.RuneCountInString(text) < p.opts.MinTextLen {
			continue
		}

		posting := Posting{
			ID:        extract.Attr(row, "id"),
			Author:    "Unknown",
			Text:      text,
			ScrapedAt: stamp,
			ThreadID:  threadID,
		}
		if a := extract.First(row, authorSelector); a != nil {
			if author := extract.Text(a); author != "" {
				posting.Author = author
			}
		}
		if age := extract.First(row, ageSelector); age != nil {
			posting.Timestamp = extract.Attr(age, "title")
		}
		posting.TextMarkdown = p.toMarkdown(extract.Render(body), text)

		postings = append(postings, posting)
	}
	return postings
}

// toMarkdown converts a comment body to markdown, sanitising it first.
// If conversion fails or produces empty output, returns the fallback plain text.
func (p *Parser) toMarkdown(rawHTML, fallback string) string {
	if rawHTML == "" {
		return fallback
	}
	clean := p.sanitizer.Sanitize(rawHTML)
	result, err := p.md.ConvertString(clean, converter.WithDomain(p.opts.BaseURL))
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}

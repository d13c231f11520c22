package extract

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const testPage = `<!DOCTYPE html>
<html><head><title>Ask HN: Who is hiring? (July 2025)</title></head>
<body>
<div id="main-content">
  <table class="comment-tree">
    <tr class="athing comtr" id="c1"><td>
      <div class="comment">
        <a class="hnuser" href="user?id=alice">alice</a>
        <span class="age" title="2025-07-01T12:00:00"></span>
        <p>First posting body</p>
      </div>
    </td></tr>
    <tr class="athing" id="c2"><td><div class="comment">collapsed row</div></td></tr>
    <tr class="athing comtr" id="c3"><td><div class="comment">Second posting body</div></td></tr>
  </table>
</div>
<script>var hidden = 1;</script>
</body></html>`

func parsePage(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestSelect_Tag(t *testing.T) {
	doc := parsePage(t, testPage)
	rows := Select(doc, "tr")
	if len(rows) != 3 {
		t.Fatalf("tr: got %d matches, want 3", len(rows))
	}
}

func TestSelect_Class(t *testing.T) {
	doc := parsePage(t, testPage)
	comments := Select(doc, ".comment")
	if len(comments) != 3 {
		t.Fatalf(".comment: got %d matches, want 3", len(comments))
	}
}

func TestSelect_MultiClass(t *testing.T) {
	doc := parsePage(t, testPage)

	rows := Select(doc, "tr.athing.comtr")
	if len(rows) != 2 {
		t.Fatalf("tr.athing.comtr: got %d matches, want 2", len(rows))
	}
	if got := Attr(rows[0], "id"); got != "c1" {
		t.Errorf("first match id: got %q, want %q", got, "c1")
	}
	if got := Attr(rows[1], "id"); got != "c3" {
		t.Errorf("second match id: got %q, want %q", got, "c3")
	}
}

func TestSelect_ID(t *testing.T) {
	doc := parsePage(t, testPage)
	matches := Select(doc, "#main-content")
	if len(matches) != 1 {
		t.Fatalf("#main-content: got %d matches, want 1", len(matches))
	}
	if matches[0].Data != "div" {
		t.Errorf("matched tag: got %q, want div", matches[0].Data)
	}
}

func TestSelect_Attr(t *testing.T) {
	doc := parsePage(t, testPage)

	if n := len(Select(doc, "span[title]")); n != 1 {
		t.Errorf("span[title]: got %d matches, want 1", n)
	}
	if n := len(Select(doc, `a[href=user?id=alice]`)); n != 1 {
		t.Errorf("a[href=...]: got %d matches, want 1", n)
	}
	if n := len(Select(doc, "span[missing]")); n != 0 {
		t.Errorf("span[missing]: got %d matches, want 0", n)
	}
}

func TestSelect_Descendant(t *testing.T) {
	doc := parsePage(t, testPage)

	if n := len(Select(doc, "table tr.athing.comtr")); n != 2 {
		t.Errorf("table tr.athing.comtr: got %d matches, want 2", n)
	}
	if n := len(Select(doc, "div.comment a.hnuser")); n != 1 {
		t.Errorf("div.comment a.hnuser: got %d matches, want 1", n)
	}
}

func TestSelect_DocumentOrder(t *testing.T) {
	doc := parsePage(t, testPage)
	rows := Select(doc, "tr")
	want := []string{"c1", "c2", "c3"}
	for i, row := range rows {
		if got := Attr(row, "id"); got != want[i] {
			t.Errorf("rows[%d] id: got %q, want %q", i, got, want[i])
		}
	}
}

func TestSelect_Empty(t *testing.T) {
	doc := parsePage(t, testPage)
	if matches := Select(doc, ""); matches != nil {
		t.Errorf("empty selector: got %d matches, want none", len(matches))
	}
}

func TestFirst(t *testing.T) {
	doc := parsePage(t, testPage)

	if n := First(doc, "a.hnuser"); n == nil {
		t.Error("a.hnuser: got nil, want match")
	}
	if n := First(doc, "div.nonexistent"); n != nil {
		t.Error("div.nonexistent: got match, want nil")
	}
}

func TestAttr(t *testing.T) {
	doc := parsePage(t, testPage)
	span := First(doc, "span.age")
	if span == nil {
		t.Fatal("span.age not found")
	}
	if got := Attr(span, "title"); got != "2025-07-01T12:00:00" {
		t.Errorf("title: got %q", got)
	}
	if got := Attr(span, "absent"); got != "" {
		t.Errorf("absent attr: got %q, want empty", got)
	}
	if !HasAttr(span, "title") {
		t.Error("HasAttr(title): got false")
	}
	if HasAttr(span, "absent") {
		t.Error("HasAttr(absent): got true")
	}
}

func TestText_SkipsScript(t *testing.T) {
	doc := parsePage(t, testPage)
	body := First(doc, "body")
	if body == nil {
		t.Fatal("body not found")
	}
	text := Text(body)
	if strings.Contains(text, "hidden") {
		t.Errorf("script content leaked into text: %q", text)
	}
	if !strings.Contains(text, "First posting body") {
		t.Errorf("text missing content: %q", text)
	}
}

func TestText_JoinsWithSpaces(t *testing.T) {
	doc := parsePage(t, `<div>Hello <b>world</b>!</div>`)
	div := First(doc, "div")
	if div == nil {
		t.Fatal("div not found")
	}
	if got := Text(div); got != "Hello world !" {
		t.Errorf("text: got %q, want %q", got, "Hello world !")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello   world  ", "hello world"},
		{"a​b", "ab"},
		{"soft­hyphen", "softhyphen"},
		{"line\none\n\nline two", "line one line two"},
		{"\ufeffbom", "bom"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	doc := parsePage(t, `<div><b>bold</b></div>`)
	b := First(doc, "b")
	if b == nil {
		t.Fatal("b not found")
	}
	if got := Render(b); got != "<b>bold</b>" {
		t.Errorf("render: got %q", got)
	}
}

func TestFindTitle(t *testing.T) {
	doc := parsePage(t, testPage)
	if got := FindTitle(doc); got != "Ask HN: Who is hiring? (July 2025)" {
		t.Errorf("title: got %q", got)
	}

	empty := parsePage(t, `<div>no title</div>`)
	if got := FindTitle(empty); got != "" {
		t.Errorf("missing title: got %q, want empty", got)
	}
}

package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/openparish/steward/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	result := htmlsanitize.Sanitize("")
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	result := htmlsanitize.Sanitize("Hello, World!")
	if result != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	result := htmlsanitize.Sanitize(input)
	if result != input {
		t.Errorf("expected safe HTML preserved, got %q", result)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	result := htmlsanitize.Sanitize(input)
	if result != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestSanitize_RemovesEventHandlers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		bad   string
	}{
		{"onclick", `<button onclick="alert('xss')">Click</button>`, "onclick"},
		{"onerror", `<img src="x" onerror="alert('xss')">`, "onerror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := htmlsanitize.Sanitize(tt.input)
			if strings.Contains(result, tt.bad) {
				t.Errorf("expected %s attribute removed, got %q", tt.bad, result)
			}
		})
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", result)
	}
}

func TestSanitize_AllowsSafeLinks(t *testing.T) {
	input := `<a href="https://example.com">Link</a>`
	result := htmlsanitize.Sanitize(input)
	// bluemonday adds rel="nofollow", so check the URL survives
	if !strings.Contains(result, "https://example.com") {
		t.Errorf("expected safe link preserved, got %q", result)
	}
}

func TestSanitize_AllowsTables(t *testing.T) {
	input := `<table><thead><tr><th>Header</th></tr></thead><tbody><tr><td>Cell</td></tr></tbody></table>`
	result := htmlsanitize.Sanitize(input)
	if result != input {
		t.Errorf("expected table preserved, got %q", result)
	}
}

func TestSanitize_AllowsTableAttributes(t *testing.T) {
	input := `<table><tr><td colspan="2" rowspan="2">Cell</td></tr></table>`
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, `colspan="2"`) || !strings.Contains(result, `rowspan="2"`) {
		t.Errorf("expected colspan/rowspan preserved, got %q", result)
	}
}

func TestSanitize_AllowsTableClassAttribute(t *testing.T) {
	input := `<table class="giving-summary"><tr class="total-row"><td class="amount">Cell</td></tr></table>`
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, `class="giving-summary"`) {
		t.Errorf("expected class attribute preserved, got %q", result)
	}
}

func TestSanitize_AllowsStyleOnTableElements(t *testing.T) {
	input := `<table style="width: 100%"><tr><td style="text-align: center">Cell</td></tr></table>`
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, "style=") {
		t.Errorf("expected style attribute on table elements, got %q", result)
	}
}

func TestSanitize_AllowsTextFormatting(t *testing.T) {
	input := "<u>underline</u> <s>strikethrough</s> <sub>sub</sub> <sup>sup</sup> <mark>mark</mark>"
	result := htmlsanitize.Sanitize(input)
	if result != input {
		t.Errorf("expected text formatting preserved, got %q", result)
	}
}

func TestSanitize_AllowsLists(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unordered", "<ul><li>Item 1</li><li>Item 2</li></ul>"},
		{"ordered", "<ol><li>First</li><li>Second</li></ol>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := htmlsanitize.Sanitize(tt.input)
			if result != tt.input {
				t.Errorf("expected list preserved, got %q", result)
			}
		})
	}
}

func TestSanitize_AllowsBlockElements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"blockquote", "<blockquote>A quote</blockquote>"},
		{"headings", "<h1>Heading 1</h1><h2>Heading 2</h2><h3>Heading 3</h3>"},
		{"code", "<pre><code>function test() {}</code></pre>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := htmlsanitize.Sanitize(tt.input)
			if result != tt.input {
				t.Errorf("expected %s preserved, got %q", tt.name, result)
			}
		})
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	input := `<p>Content</p><iframe src="https://evil.com"></iframe>`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "iframe") {
		t.Error("expected iframe to be removed")
	}
	if !strings.Contains(result, "Content") {
		t.Error("expected safe content to be preserved")
	}
}

func TestSanitize_RemovesStyleTags(t *testing.T) {
	input := `<style>body { color: red; }</style><p>Text</p>`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "<style>") {
		t.Error("expected style tag to be removed")
	}
}

func TestSanitize_RemovesFormElements(t *testing.T) {
	input := `<form action="/submit"><input type="text" name="data"><button>Submit</button></form>`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "<form") || strings.Contains(result, "<input") {
		t.Error("expected form elements to be removed")
	}
}

func TestSanitize_AllowsImages(t *testing.T) {
	input := `<img src="https://example.com/image.png" alt="Image">`
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, "src=") || !strings.Contains(result, "alt=") {
		t.Errorf("expected image preserved, got %q", result)
	}
}

func TestSanitize_RemovesDataURLInImage(t *testing.T) {
	input := `<img src="data:text/html,<script>alert('xss')</script>">`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "data:text/html") {
		t.Error("expected data:text/html to be removed from image src")
	}
}

func TestSanitize_AllowsBreakTags(t *testing.T) {
	input := "Line 1<br>Line 2<br/>Line 3"
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, "<br") {
		t.Errorf("expected br tags preserved, got %q", result)
	}
}

func TestSanitize_AllowsHorizontalRule(t *testing.T) {
	input := "<p>Before</p><hr><p>After</p>"
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, "<hr") {
		t.Errorf("expected hr preserved, got %q", result)
	}
}

func TestSanitizeToHTML(t *testing.T) {
	result := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>alert('xss')</script>")
	if result != template.HTML("<p>Hello</p>") {
		t.Errorf("expected script removed, got %q", result)
	}

	if htmlsanitize.SanitizeToHTML("") != "" {
		t.Error("expected empty template.HTML for empty input")
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"5 < 10", true}, // lone < is not markup
		{"5 > 3", true},  // lone > is not markup
		{"<p>Hello</p>", false},
		{"text with <br> break", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := htmlsanitize.IsPlainText(tt.input)
			if got != tt.want {
				t.Errorf("IsPlainText(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"simple text", "Hello, World!", "<p>Hello, World!</p>"},
		{"newlines converted", "Line 1\nLine 2\nLine 3", "<p>Line 1<br>Line 2<br>Line 3</p>"},
		{"ampersand escaped", "A & B", "<p>A &amp; B</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.PlainTextToHTML(tt.input)
			if got != tt.want {
				t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainTextToHTML_HTMLEscaped(t *testing.T) {
	result := htmlsanitize.PlainTextToHTML("<script>alert('xss')</script>")
	if strings.Contains(result, "<script>") {
		t.Error("expected HTML to be escaped")
	}
	if !strings.Contains(result, "&lt;") || !strings.Contains(result, "&gt;") {
		t.Error("expected < and > to be escaped")
	}
}

func TestPrepareForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  template.HTML
	}{
		{"empty", "", ""},
		{"plain text", "Hello, World!", "<p>Hello, World!</p>"},
		{"html passes through", "<p>Hello</p>", "<p>Hello</p>"},
		{"dangerous html cleaned", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
		{"plain text with newlines", "Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.PrepareForDisplay(tt.input)
			if got != tt.want {
				t.Errorf("PrepareForDisplay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

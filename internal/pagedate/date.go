// Package pagedate renders document dates: it records the date each document
// declares, replaces pagedate markers with the formatted date, annotates
// table-of-contents links with their target's date, and provides the date role.
package pagedate

import (
	"html"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// CSS classes of the rendered <time> element.
const (
	ClassPage = "page-date"
	ClassTOC  = "toc-date"
)

const (
	sourceLayout  = time.DateOnly
	displayLayout = "2 January 2006"
)

// FormatDate renders a YYYY-MM-DD date as "6 August 2025". Any other input
// is returned unchanged with ok set to false.
func FormatDate(raw string) (display string, ok bool) {
	t, err := time.Parse(sourceLayout, raw)
	if err != nil {
		return raw, false
	}
	return t.Format(displayLayout), true
}

// FormatDateAs parses raw with a strftime format such as "%d/%m/%Y" and
// renders it like FormatDate. Unparseable input is returned unchanged.
func FormatDateAs(raw, format string) (display string, ok bool) {
	if format == "" {
		return FormatDate(raw)
	}
	t, err := strftime.Parse(format, raw)
	if err != nil {
		return raw, false
	}
	return t.Format(displayLayout), true
}

// Markup returns <time class="class" datetime="raw">display</time>.
func Markup(class, raw, display string) string {
	var b strings.Builder
	b.WriteString(`<time class="`)
	b.WriteString(class)
	b.WriteString(`" datetime="`)
	b.WriteString(html.EscapeString(raw))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(display))
	b.WriteString(`</time>`)
	return b.String()
}

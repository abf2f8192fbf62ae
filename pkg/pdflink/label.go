package pdflink

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
)

// RecentlyLinked replaces creation dates that cannot be parsed.
const RecentlyLinked = "Recently linked"

// FallbackLabel is shown when a link has neither titles nor a page.
const FallbackLabel = "Open PDF"

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// DisplayLabel picks the text shown for a link. The same rule is used by chip
// rendering, HTML export and summaries.
func DisplayLabel(bookmarkTitle, outlineTitle string, pageNumber int) string {
	if t := strings.TrimSpace(bookmarkTitle); t != "" {
		return t
	}
	if o := strings.TrimSpace(outlineTitle); o != "" {
		return "See " + o
	}
	if pageNumber > 0 {
		return "Open on Page " + strconv.Itoa(pageNumber)
	}
	return FallbackLabel
}

// AccessibleTitle is the title and aria-label text of a chip.
func AccessibleTitle(label string, pageNumber int) string {
	if pageNumber > 0 {
		return label + " (page " + strconv.Itoa(pageNumber) + ")"
	}
	return label
}

// ParseCreatedAt parses an ISO-8601 timestamp as stored in a payload.
func ParseCreatedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateFormatter renders creation timestamps as a locale-aware medium date
// followed by a short time.
type DateFormatter struct {
	trans locales.Translator
	loc   *time.Location
}

// NewDateFormatter returns a formatter for locale ("en", "zh", "zh_cn", ...)
// in the given location. Unknown locales fall back to English and a nil
// location to UTC.
func NewDateFormatter(locale string, loc *time.Location) *DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &DateFormatter{trans: translatorFor(locale), loc: loc}
}

var defaultDateFormatter = NewDateFormatter("en", time.UTC)

// Locale returns the locale name of the underlying translator.
func (f *DateFormatter) Locale() string {
	return f.trans.Locale()
}

// Format returns the display text of createdAt, or RecentlyLinked when it
// does not parse.
func (f *DateFormatter) Format(createdAt string) string {
	if f == nil {
		f = defaultDateFormatter
	}
	t, ok := ParseCreatedAt(createdAt)
	if !ok {
		return RecentlyLinked
	}
	t = t.In(f.loc)
	return f.trans.FmtDateMedium(t) + " " + f.trans.FmtTimeShort(t)
}

func translatorFor(locale string) locales.Translator {
	l := strings.ToLower(strings.ReplaceAll(locale, "-", "_"))
	switch {
	case l == "zh" || strings.HasPrefix(l, "zh_"):
		return zh.New()
	default:
		return en.New()
	}
}

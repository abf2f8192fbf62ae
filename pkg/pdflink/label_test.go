package pdflink

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	"github.com/stretchr/testify/assert"
)

func TestDisplayLabelPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		bookmark string
		outline  string
		page     int
		want     string
	}{
		{"bookmark wins", "Chapter Notes", "Section 4.2", 7, "Chapter Notes"},
		{"outline", "", "Section 4.2", 7, "See Section 4.2"},
		{"page only", "", "", 7, "Open on Page 7"},
		{"nothing", "", "", 0, FallbackLabel},
		{"blank bookmark falls through", "   ", "Intro", 1, "See Intro"},
		{"bookmark is trimmed", "  Key idea ", "", 3, "Key idea"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayLabel(tt.bookmark, tt.outline, tt.page))
		})
	}
}

func TestAccessibleTitle(t *testing.T) {
	assert.Equal(t, "See Intro (page 3)", AccessibleTitle("See Intro", 3))
	assert.Equal(t, "Open PDF", AccessibleTitle("Open PDF", 0))
}

func TestDateFormatter(t *testing.T) {
	f := NewDateFormatter("en", time.UTC)
	ts := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	trans := en.New()

	assert.Equal(t, trans.FmtDateMedium(ts)+" "+trans.FmtTimeShort(ts), f.Format("2026-03-14T09:26:00Z"))
	assert.Contains(t, f.Format("2026-03-14T09:26:00.123+00:00"), "2026")
	assert.Equal(t, "en", f.Locale())
}

func TestDateFormatterFallback(t *testing.T) {
	f := NewDateFormatter("en", nil)
	for _, in := range []string{"", "yesterday", "2026-13-45", "NaN"} {
		assert.Equal(t, RecentlyLinked, f.Format(in), "input %q", in)
	}

	var nilFormatter *DateFormatter
	assert.Equal(t, RecentlyLinked, nilFormatter.Format("garbage"))
	assert.NotEqual(t, RecentlyLinked, nilFormatter.Format("2026-03-14T09:26:00Z"))
}

func TestDateFormatterLocation(t *testing.T) {
	f := NewDateFormatter("en", time.FixedZone("UTC+8", 8*3600))
	assert.Contains(t, f.Format("2026-03-14T20:00:00Z"), "15")
}

func TestDateFormatterLocales(t *testing.T) {
	zhf := NewDateFormatter("zh-CN", time.UTC)
	enf := NewDateFormatter("fr", time.UTC)

	assert.Equal(t, "zh", zhf.Locale())
	assert.Equal(t, "en", enf.Locale())
	assert.NotEqual(t, zhf.Format("2026-03-14T09:26:00Z"), enf.Format("2026-03-14T09:26:00Z"))
}

// Package pdflink implements the PDF note link protocol: the encoded payload
// carried by inline "chip" nodes in a note, the hidden sentinel text that keeps
// the payload recoverable from plain text, the chip palette, the node
// attribute contract and link summary extraction.
package pdflink

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// MaxBookmarkTitleLen is the longest bookmark title accepted, in runes.
const MaxBookmarkTitleLen = 100

// MaxPageNumber is the largest page number Encode accepts and Decode reads.
const MaxPageNumber = 1 << 30

var (
	// ErrDecodeFailure is matched by every error returned from Decode.
	ErrDecodeFailure = errors.New("pdflink: decode failure")
	// ErrInvalidPayload is returned when a payload cannot be encoded.
	ErrInvalidPayload = errors.New("pdflink: invalid payload")
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Payload is the structured reference to a PDF location.
// Empty strings mean "absent" for the optional fields.
type Payload struct {
	LinkID        string `json:"linkId"`
	PageNumber    int    `json:"pageNumber"`
	OutlineTitle  string `json:"outlineTitle,omitempty"`
	BookmarkTitle string `json:"bookmarkTitle,omitempty"`
	BookmarkColor string `json:"bookmarkColor,omitempty"`
	Snippet       string `json:"snippet,omitempty"`
	FileURL       string `json:"fileUrl"`
	CreatedAt     string `json:"createdAt"`
}

// Validate reports whether p can be encoded.
func (p Payload) Validate() error {
	if p.LinkID == "" {
		return errors.Wrap(ErrInvalidPayload, "link id is empty")
	}
	if p.PageNumber < 1 {
		return errors.Wrapf(ErrInvalidPayload, "page number %d is not positive", p.PageNumber)
	}
	if p.PageNumber > MaxPageNumber {
		return errors.Wrapf(ErrInvalidPayload, "page number %d exceeds %d", p.PageNumber, MaxPageNumber)
	}
	if utf8.RuneCountInString(p.BookmarkTitle) > MaxBookmarkTitleLen {
		return errors.Wrapf(ErrInvalidPayload, "bookmark title longer than %d characters", MaxBookmarkTitleLen)
	}
	if p.BookmarkColor != "" && !IsHexColor(p.BookmarkColor) {
		return errors.Wrapf(ErrInvalidPayload, "bookmark color %q is not a hex color", p.BookmarkColor)
	}
	return nil
}

// WithBookmark returns a copy of p with the bookmark title and color replaced.
// The title is trimmed and NFC normalized so that visually equal titles
// encode identically. Identity fields (link id, page, created-at) are kept.
func (p Payload) WithBookmark(title, color string) Payload {
	p.BookmarkTitle = norm.NFC.String(strings.TrimSpace(title))
	p.BookmarkColor = strings.TrimSpace(color)
	return p
}

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// Summary is the read-only sidebar projection of one link occurrence.
type Summary struct {
	ID            string `json:"id"`
	PageNumber    int    `json:"pageNumber"`
	OutlineTitle  string `json:"outlineTitle,omitempty"`
	BookmarkTitle string `json:"bookmarkTitle,omitempty"`
	BookmarkColor string `json:"bookmarkColor,omitempty"`
	CreatedAt     string `json:"createdAt"`
	Label         string `json:"label"`
}

// SummaryOf projects a decoded payload into a Summary.
func SummaryOf(p Payload) Summary {
	return Summary{
		ID:            p.LinkID,
		PageNumber:    p.PageNumber,
		OutlineTitle:  p.OutlineTitle,
		BookmarkTitle: p.BookmarkTitle,
		BookmarkColor: p.BookmarkColor,
		CreatedAt:     p.CreatedAt,
		Label:         DisplayLabel(p.BookmarkTitle, p.OutlineTitle, p.PageNumber),
	}
}

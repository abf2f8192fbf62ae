package pdflink

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Protocol constants of the inline link node. Bump the salt when the attribute
// schema changes incompatibly and keep the previous one readable for one
// release through RecognizeOptions.
const (
	NodeName = "pdfNoteLink"

	AttrMarker  = "data-pdf-note-link"
	MarkerValue = "true"
	AttrSalt    = "data-pdf-note-salt"

	SaltV1      = "pnl.v1.a91e"
	SaltV2      = "pnl.v2.7f3c"
	CurrentSalt = SaltV2

	AttrSentinel = "data-pdf-note-sentinel"
)

// Element attributes carried by a chip.
const (
	AttrLinkID          = "data-link-id"
	AttrPageNumber      = "data-page-number"
	AttrLabel           = "data-label"
	AttrOutlineTitle    = "data-outline-title"
	AttrBookmarkColor   = "data-bookmark-color"
	AttrFileURL         = "data-file-url"
	AttrSnippet         = "data-snippet"
	AttrCreatedAt       = "data-created-at"
	AttrChipLabel       = "data-chip-label"
	AttrChipColor       = "data-chip-color"
	AttrPayload         = "data-payload"
	AttrPayloadChecksum = "data-payload-checksum"
	AttrRole            = "role"
	AttrTabIndex        = "tabindex"
	AttrTitle           = "title"
	AttrAriaLabel       = "aria-label"
)

// RecognizeOptions tunes which nodes are accepted as links.
type RecognizeOptions struct {
	// AcceptLegacySalt also accepts nodes written with SaltV1.
	AcceptLegacySalt bool
}

// DefaultRecognizeOptions accepts the current and the previous salt.
var DefaultRecognizeOptions = RecognizeOptions{AcceptLegacySalt: true}

// AcceptsSalt reports whether salt marks a link node under o.
func (o RecognizeOptions) AcceptsSalt(salt string) bool {
	switch salt {
	case CurrentSalt:
		return true
	case SaltV1:
		return o.AcceptLegacySalt
	}
	return false
}

// NodeAttrs is the typed attribute set of a link node. Absent attributes are
// zero values.
type NodeAttrs struct {
	LinkID          string
	PageNumber      int
	Label           string // user bookmark title
	OutlineTitle    string
	BookmarkColor   string
	FileURL         string
	Snippet         string
	CreatedAt       string
	ChipLabel       string
	ChipColor       string
	Role            string
	TabIndex        string
	Title           string
	AriaLabel       string
	Encoded         string
	PayloadChecksum string
	Salt            string
}

// NewNodeAttrs encodes p and returns the attributes of a fresh node.
func NewNodeAttrs(p Payload) (NodeAttrs, error) {
	encoded, err := Encode(p)
	if err != nil {
		return NodeAttrs{}, err
	}
	label := DisplayLabel(p.BookmarkTitle, p.OutlineTitle, p.PageNumber)
	title := AccessibleTitle(label, p.PageNumber)
	return NodeAttrs{
		LinkID:          p.LinkID,
		PageNumber:      p.PageNumber,
		Label:           p.BookmarkTitle,
		OutlineTitle:    p.OutlineTitle,
		BookmarkColor:   p.BookmarkColor,
		FileURL:         p.FileURL,
		Snippet:         p.Snippet,
		CreatedAt:       p.CreatedAt,
		ChipLabel:       label,
		ChipColor:       ResolvePalette(p.BookmarkColor).Accent,
		Role:            "button",
		TabIndex:        "0",
		Title:           title,
		AriaLabel:       title,
		Encoded:         encoded,
		PayloadChecksum: Checksum(encoded),
		Salt:            CurrentSalt,
	}, nil
}

// Payload decodes the carried encoded payload. It is what a chip hands to the
// navigation callback on activation. A checksum attribute that disagrees with
// the encoded suffix is treated as corruption.
func (a NodeAttrs) Payload() (Payload, error) {
	if a.Encoded == "" {
		return Payload{}, errors.Wrap(ErrDecodeFailure, "node carries no payload")
	}
	if a.PayloadChecksum != "" && a.PayloadChecksum != Checksum(a.Encoded) {
		return Payload{}, errors.Wrap(ErrDecodeFailure, "checksum attribute does not match payload")
	}
	return Decode(a.Encoded)
}

// Reference returns the decoded payload, or a payload assembled from the
// redundant display attributes when decoding fails.
func (a NodeAttrs) Reference() (Payload, bool) {
	if p, err := a.Payload(); err == nil {
		return p, true
	}
	return Payload{
		LinkID:        a.LinkID,
		PageNumber:    a.PageNumber,
		OutlineTitle:  a.OutlineTitle,
		BookmarkTitle: a.Label,
		BookmarkColor: a.BookmarkColor,
		Snippet:       a.Snippet,
		FileURL:       a.FileURL,
		CreatedAt:     a.CreatedAt,
	}, false
}

// EffectiveLinkID is the link id of the decoded payload, or the link id
// attribute when the payload does not decode.
func (a NodeAttrs) EffectiveLinkID() string {
	p, _ := a.Reference()
	return p.LinkID
}

// WithBookmark re-encodes the node with a new bookmark title and color. Link
// id, page and creation time are kept.
func (a NodeAttrs) WithBookmark(title, color string) (NodeAttrs, error) {
	p, _ := a.Reference()
	return NewNodeAttrs(p.WithBookmark(title, color))
}

var blockAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Html: true, atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true,
}

// IsLinkElement reports whether n is a link node: an inline element carrying
// the marker attribute and an accepted salt. The tag name is not otherwise
// checked.
func IsLinkElement(n *html.Node, opts RecognizeOptions) bool {
	if n == nil || n.Type != html.ElementNode || blockAtoms[n.DataAtom] {
		return false
	}
	return attr(n, AttrMarker) == MarkerValue && opts.AcceptsSalt(attr(n, AttrSalt))
}

// ParseElement reads the attributes of a recognized link element.
func ParseElement(n *html.Node, opts RecognizeOptions) (NodeAttrs, bool) {
	if !IsLinkElement(n, opts) {
		return NodeAttrs{}, false
	}
	return NodeAttrs{
		LinkID:          attr(n, AttrLinkID),
		PageNumber:      parsePageAttr(attr(n, AttrPageNumber)),
		Label:           attr(n, AttrLabel),
		OutlineTitle:    attr(n, AttrOutlineTitle),
		BookmarkColor:   attr(n, AttrBookmarkColor),
		FileURL:         attr(n, AttrFileURL),
		Snippet:         attr(n, AttrSnippet),
		CreatedAt:       attr(n, AttrCreatedAt),
		ChipLabel:       attr(n, AttrChipLabel),
		ChipColor:       attr(n, AttrChipColor),
		Role:            attr(n, AttrRole),
		TabIndex:        attr(n, AttrTabIndex),
		Title:           attr(n, AttrTitle),
		AriaLabel:       attr(n, AttrAriaLabel),
		Encoded:         attr(n, AttrPayload),
		PayloadChecksum: attr(n, AttrPayloadChecksum),
		Salt:            attr(n, AttrSalt),
	}, true
}

// JSON attribute keys of the editor document form.
const (
	jsonLinkID          = "linkId"
	jsonPageNumber      = "pageNumber"
	jsonLabel           = "label"
	jsonOutlineTitle    = "outlineTitle"
	jsonBookmarkColor   = "bookmarkColor"
	jsonFileURL         = "fileUrl"
	jsonSnippet         = "snippet"
	jsonCreatedAt       = "createdAt"
	jsonChipLabel       = "chipLabel"
	jsonChipColor       = "chipColor"
	jsonPayload         = "payload"
	jsonPayloadChecksum = "payloadChecksum"
	jsonSalt            = "salt"
)

// JSONAttrs returns the attribute map stored on the node in an editor JSON
// document. Empty values are omitted.
func (a NodeAttrs) JSONAttrs() map[string]any {
	m := map[string]any{
		jsonLinkID: a.LinkID,
		jsonSalt:   a.Salt,
	}
	if a.PageNumber > 0 {
		m[jsonPageNumber] = a.PageNumber
	}
	for k, v := range map[string]string{
		jsonLabel:           a.Label,
		jsonOutlineTitle:    a.OutlineTitle,
		jsonBookmarkColor:   a.BookmarkColor,
		jsonFileURL:         a.FileURL,
		jsonSnippet:         a.Snippet,
		jsonCreatedAt:       a.CreatedAt,
		jsonChipLabel:       a.ChipLabel,
		jsonChipColor:       a.ChipColor,
		jsonPayload:         a.Encoded,
		jsonPayloadChecksum: a.PayloadChecksum,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// AttrsFromJSON reads node attributes from an editor JSON attribute map.
// Values of the wrong type read as absent.
func AttrsFromJSON(m map[string]any) NodeAttrs {
	return NodeAttrs{
		LinkID:          jsonString(m, jsonLinkID),
		PageNumber:      jsonInt(m, jsonPageNumber),
		Label:           jsonString(m, jsonLabel),
		OutlineTitle:    jsonString(m, jsonOutlineTitle),
		BookmarkColor:   jsonString(m, jsonBookmarkColor),
		FileURL:         jsonString(m, jsonFileURL),
		Snippet:         jsonString(m, jsonSnippet),
		CreatedAt:       jsonString(m, jsonCreatedAt),
		ChipLabel:       jsonString(m, jsonChipLabel),
		ChipColor:       jsonString(m, jsonChipColor),
		Encoded:         jsonString(m, jsonPayload),
		PayloadChecksum: jsonString(m, jsonPayloadChecksum),
		Salt:            jsonString(m, jsonSalt),
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func parsePageAttr(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxPageNumber {
		return 0
	}
	return n
}

func jsonString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func jsonInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		if v > 0 && v <= MaxPageNumber {
			return v
		}
	case int64:
		if v > 0 && v <= MaxPageNumber {
			return int(v)
		}
	case float64:
		if v >= 1 && v <= MaxPageNumber && v == float64(int(v)) {
			return int(v)
		}
	case string:
		return parsePageAttr(v)
	case interface{ Int64() (int64, error) }:
		if i, err := v.Int64(); err == nil && i > 0 && i <= MaxPageNumber {
			return int(i)
		}
	}
	return 0
}

package pdflink

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ChipView is everything needed to draw one chip, computed from its
// attributes without touching any editor state.
type ChipView struct {
	Attrs    NodeAttrs `json:"-"`
	Label    string    `json:"label"`
	Meta     string    `json:"meta"`
	DateText string    `json:"dateText"`
	Title    string    `json:"title"`
	Palette  Palette   `json:"palette"`
	Sentinel string    `json:"sentinel,omitempty"`
	// Decoded is false when the carried payload failed to decode and the view
	// was built from the raw display attributes.
	Decoded bool `json:"decoded"`
}

// BuildView computes the display state of a chip. When the carried payload
// decodes it fills display attributes that are absent on the node; otherwise
// the raw attributes are used as they are.
func BuildView(a NodeAttrs, f *DateFormatter) ChipView {
	eff := a
	p, err := a.Payload()
	decoded := err == nil
	if decoded {
		fillString(&eff.LinkID, p.LinkID)
		if eff.PageNumber < 1 {
			eff.PageNumber = p.PageNumber
		}
		fillString(&eff.Label, p.BookmarkTitle)
		fillString(&eff.OutlineTitle, p.OutlineTitle)
		fillString(&eff.BookmarkColor, p.BookmarkColor)
		fillString(&eff.FileURL, p.FileURL)
		fillString(&eff.Snippet, p.Snippet)
		fillString(&eff.CreatedAt, p.CreatedAt)
	}

	label := DisplayLabel(eff.Label, eff.OutlineTitle, eff.PageNumber)
	if label == FallbackLabel && strings.TrimSpace(a.ChipLabel) != "" {
		label = strings.TrimSpace(a.ChipLabel)
	}

	color := eff.BookmarkColor
	if color == "" {
		color = a.ChipColor
	}

	dateText := f.Format(eff.CreatedAt)
	meta := dateText
	if eff.PageNumber > 0 {
		meta = "Page " + strconv.Itoa(eff.PageNumber) + " · " + dateText
	}

	v := ChipView{
		Attrs:    eff,
		Label:    label,
		Meta:     meta,
		DateText: dateText,
		Title:    AccessibleTitle(label, eff.PageNumber),
		Palette:  ResolvePalette(color),
		Decoded:  decoded,
	}
	if a.Encoded != "" {
		v.Sentinel = BuildSentinelText(a.Encoded)
	}
	return v
}

// RenderHTML serializes a link node to its saved HTML fragment.
func RenderHTML(a NodeAttrs, f *DateFormatter) string {
	var b strings.Builder
	// Render only fails on write errors, which a strings.Builder never returns.
	_ = html.Render(&b, RenderNode(a, f))
	return b.String()
}

// RenderNode builds the chip element tree of a link node.
func RenderNode(a NodeAttrs, f *DateFormatter) *html.Node {
	v := BuildView(a, f)
	eff := v.Attrs
	salt := a.Salt
	if salt == "" {
		salt = CurrentSalt
	}

	chip := element(atom.Span,
		html.Attribute{Key: "class", Val: "pdf-note-link"},
		html.Attribute{Key: AttrMarker, Val: MarkerValue},
		html.Attribute{Key: AttrSalt, Val: salt},
	)
	chip.Attr = appendNonEmpty(chip.Attr,
		AttrLinkID, eff.LinkID,
		AttrPageNumber, pageAttr(eff.PageNumber),
		AttrLabel, eff.Label,
		AttrOutlineTitle, eff.OutlineTitle,
		AttrBookmarkColor, eff.BookmarkColor,
		AttrFileURL, eff.FileURL,
		AttrSnippet, eff.Snippet,
		AttrCreatedAt, eff.CreatedAt,
		AttrChipLabel, v.Label,
		AttrChipColor, v.Palette.Accent,
		AttrPayload, a.Encoded,
		AttrPayloadChecksum, a.PayloadChecksum,
	)
	chip.Attr = append(chip.Attr,
		html.Attribute{Key: AttrRole, Val: "button"},
		html.Attribute{Key: AttrTabIndex, Val: "0"},
		html.Attribute{Key: AttrTitle, Val: v.Title},
		html.Attribute{Key: AttrAriaLabel, Val: v.Title},
		html.Attribute{Key: "contenteditable", Val: "false"},
		html.Attribute{Key: "style", Val: chipStyle(v.Palette)},
	)

	label := element(atom.Span, html.Attribute{Key: "class", Val: "pdf-note-link__label"})
	label.AppendChild(&html.Node{Type: html.TextNode, Data: v.Label})
	chip.AppendChild(label)

	meta := element(atom.Span,
		html.Attribute{Key: "class", Val: "pdf-note-link__meta"},
		html.Attribute{Key: "style", Val: "color:" + v.Palette.Border},
	)
	meta.AppendChild(&html.Node{Type: html.TextNode, Data: v.Meta})
	chip.AppendChild(meta)

	if v.Sentinel != "" {
		sentinel := element(atom.Span,
			html.Attribute{Key: "hidden"},
			html.Attribute{Key: "aria-hidden", Val: "true"},
			html.Attribute{Key: AttrSentinel, Val: "true"},
		)
		sentinel.AppendChild(&html.Node{Type: html.TextNode, Data: v.Sentinel})
		chip.AppendChild(sentinel)
	}
	return chip
}

func chipStyle(p Palette) string {
	return "color:" + p.Accent +
		";background-color:" + p.Muted +
		";border:1px solid " + p.Border +
		";box-shadow:0 0 0 2px " + p.Halo
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// appendNonEmpty appends key/value pairs whose value is not empty.
func appendNonEmpty(attrs []html.Attribute, kv ...string) []html.Attribute {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			attrs = append(attrs, html.Attribute{Key: kv[i], Val: kv[i+1]})
		}
	}
	return attrs
}

func pageAttr(page int) string {
	if page < 1 {
		return ""
	}
	return strconv.Itoa(page)
}

func fillString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

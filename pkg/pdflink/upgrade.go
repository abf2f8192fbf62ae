package pdflink

// UpgradeSalt rewrites link nodes written with SaltV1 so that they carry
// CurrentSalt and returns the new content with the number of nodes
// rewritten. Markup chips are re-rendered in place; editor JSON documents only
// get their salt attribute replaced. Content without legacy nodes is returned
// unchanged.
func UpgradeSalt(content string, f *DateFormatter) (string, int, error) {
	if IsDocJSON(content) {
		doc, err := ParseDoc(content)
		if err != nil {
			return "", 0, err
		}
		n := 0
		doc.Walk(func(d *DocNode) bool {
			if d.Type == NodeName && jsonString(d.Attrs, jsonSalt) == SaltV1 {
				d.Attrs[jsonSalt] = CurrentSalt
				n++
			}
			return true
		})
		if n == 0 {
			return content, 0, nil
		}
		out, err := MarshalDoc(doc)
		if err != nil {
			return "", 0, err
		}
		return out, n, nil
	}

	out, n := upgradeRanges(content, linkRanges, f)
	return out, n, nil
}

// UpgradeMarkdownSalt is UpgradeSalt for markdown documents. Chips shown
// inside code spans or code blocks are left as written.
func UpgradeMarkdownSalt(content string, f *DateFormatter) (string, int) {
	return upgradeRanges(content, markdownLinkRanges, f)
}

func upgradeRanges(content string, ranges func(string, RecognizeOptions) [][2]int, f *DateFormatter) (string, int) {
	opts := RecognizeOptions{AcceptLegacySalt: true}
	n := 0
	out := replaceRanges(content, ranges(content, opts), opts, func(a NodeAttrs, raw string) string {
		if a.Salt != SaltV1 {
			return raw
		}
		a.Salt = CurrentSalt
		n++
		return RenderHTML(a, f)
	})
	return out, n
}

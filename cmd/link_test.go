package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

func plainOutput() (*linkOutput, *bytes.Buffer) {
	var buf bytes.Buffer
	return newLinkOutputWithProfile(&buf, false, termenv.Ascii), &buf
}

func TestPayloadFlagsMergesJSONC(t *testing.T) {
	p := filepath.Join(t.TempDir(), "payload.jsonc")
	require.NoError(t, os.WriteFile(p, []byte(`{
		// exported from the reader
		"pageNumber": 3,
		"outlineTitle": "Results",
		"fileUrl": "file:///papers/a.pdf", /* trailing comma below */
	}`), 0o644))

	f := &payloadFlags{from: p}
	f.p.PageNumber = 9
	f.p.BookmarkTitle = "  Table 2 "

	got, err := f.payload(fixedNow, func() string { return "fixed-id" })
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.LinkID)
	assert.Equal(t, 9, got.PageNumber)
	assert.Equal(t, "Results", got.OutlineTitle)
	assert.Equal(t, "Table 2", got.BookmarkTitle)
	assert.Equal(t, "file:///papers/a.pdf", got.FileURL)
	assert.Equal(t, "2026-03-14T09:26:53Z", got.CreatedAt)
}

func TestPayloadFlagsValidates(t *testing.T) {
	f := &payloadFlags{}
	_, err := f.payload(fixedNow, func() string { return "x" })
	assert.ErrorIs(t, err, pdflink.ErrInvalidPayload)
}

func TestLinkEncodeDecode(t *testing.T) {
	out, buf := plainOutput()
	enc := &encodeFlags{html: true, json: true}
	enc.locale, enc.timeZone = "en", "UTC"
	enc.p = pdflink.Payload{LinkID: "abc", PageNumber: 12, OutlineTitle: "Methods", FileURL: "https://example.com/a.pdf"}

	require.NoError(t, runLinkEncode(out, enc))
	lines := strings.Split(buf.String(), "\n")
	encoded := lines[0]
	assert.NotEmpty(t, pdflink.Checksum(encoded))
	assert.Contains(t, buf.String(), `data-pdf-note-link="true"`)
	assert.Contains(t, buf.String(), `"type": "`+pdflink.NodeName+`"`)

	out, buf = plainOutput()
	dec := &decodeFlags{}
	dec.locale, dec.timeZone = "en", "UTC"
	require.NoError(t, runLinkDecode(out, dec, encoded+"\n"))
	assert.Contains(t, buf.String(), "See Methods")
	assert.Contains(t, buf.String(), "page 12")
	assert.Contains(t, buf.String(), `"linkId": "abc"`)

	out, _ = plainOutput()
	assert.ErrorIs(t, runLinkDecode(out, dec, encoded[:len(encoded)-1]+"0"), pdflink.ErrDecodeFailure)
}

func TestLinkScan(t *testing.T) {
	a, err := pdflink.NewNodeAttrs(pdflink.Payload{LinkID: "s1", PageNumber: 4, BookmarkTitle: "Proof", FileURL: "u", CreatedAt: "2026-03-14T09:26:53Z"})
	require.NoError(t, err)

	f := &scanFlags{}
	f.locale, f.timeZone = "en", "UTC"

	out, buf := plainOutput()
	require.NoError(t, runLinkScan(out, f, "<p>before "+pdflink.RenderHTML(a, nil)+" after</p>"))
	assert.Contains(t, buf.String(), "Proof")
	assert.Contains(t, buf.String(), "1 link(s)")

	f.markdown = true
	out, buf = plainOutput()
	require.NoError(t, runLinkScan(out, f, "Use `<!--` here.\n\n"+pdflink.RenderHTML(a, nil)+"\n"))
	assert.Contains(t, buf.String(), "1 link(s)")
	f.markdown = false

	f.text = true
	f.showErrors = true
	text := "copied " + pdflink.BuildSentinelText(a.Encoded) + " and " + pdflink.BuildSentinelText("broken.00000000")
	out, buf = plainOutput()
	require.NoError(t, runLinkScan(out, f, text))
	assert.Contains(t, buf.String(), "Proof")
	assert.Contains(t, buf.String(), "skipped:")
	assert.Contains(t, buf.String(), "1 link(s)")

	f.timeZone = "Nowhere/Land"
	out, _ = plainOutput()
	assert.Error(t, runLinkScan(out, f, ""))
}

func TestLinkPalette(t *testing.T) {
	out, buf := plainOutput()
	runLinkPalette(out, "#ABC")
	assert.Contains(t, buf.String(), "#aabbcc")
	assert.Contains(t, buf.String(), "rgba(170, 187, 204, 0.24)")

	out, buf = plainOutput()
	runLinkPalette(out, "not-a-color")
	assert.Contains(t, buf.String(), pdflink.DefaultPalette.Accent)
}

func TestMintToken(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("security:\n  auth-token-key: cli-test-key\n"), 0o644))

	token, err := mintToken(&tokenFlags{config: p, uid: 5, nickname: "me"})
	require.NoError(t, err)

	user, err := pkgapp.ParseTokenWithKey(token, "cli-test-key")
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.UID)

	_, err = mintToken(&tokenFlags{config: p})
	assert.Error(t, err)
}

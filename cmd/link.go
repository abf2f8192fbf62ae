package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/gookit/goutil/dump"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"golang.org/x/term"
)

// linkOutput 链接工具的终端输出，非终端时不输出颜色
type linkOutput struct {
	w        io.Writer
	color    bool
	renderer *lipgloss.Renderer
}

func newLinkOutput(f *os.File) *linkOutput {
	color := term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	return newLinkOutputWithProfile(f, color, profile)
}

func newLinkOutputWithProfile(w io.Writer, color bool, profile termenv.Profile) *linkOutput {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return &linkOutput{w: w, color: color, renderer: r}
}

// source 输出代码片段，终端下语法高亮
func (o *linkOutput) source(src, lexer string) error {
	if o.color {
		if err := quick.Highlight(o.w, src, lexer, "terminal256", "monokai"); err != nil {
			return err
		}
		_, err := io.WriteString(o.w, "\n")
		return err
	}
	_, err := io.WriteString(o.w, src+"\n")
	return err
}

func (o *linkOutput) println(a ...any) {
	_, _ = fmt.Fprintln(o.w, a...)
}

// chipLine 单行展示一个链接，标签使用调色板强调色
func (o *linkOutput) chipLine(s pdflink.Summary, f *pdflink.DateFormatter) string {
	palette := pdflink.ResolvePalette(s.BookmarkColor)
	label := o.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(palette.Accent)).
		Render(s.Label)
	meta := o.renderer.NewStyle().Faint(true).Render(
		fmt.Sprintf("page %d · %s · %s", s.PageNumber, f.Format(s.CreatedAt), s.ID))
	return label + "  " + meta
}

// payloadFlags 编码参数，可从 JSON/JSONC 文件读取再由命令行覆盖
type payloadFlags struct {
	from string
	p    pdflink.Payload
}

func (f *payloadFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.from, "from", "", "read the payload from a JSON or JSONC file")
	fs.StringVar(&f.p.LinkID, "id", "", "link id, generated when empty")
	fs.IntVarP(&f.p.PageNumber, "page", "p", 0, "page number (1-based)")
	fs.StringVar(&f.p.OutlineTitle, "outline", "", "outline title of the page")
	fs.StringVarP(&f.p.BookmarkTitle, "title", "t", "", "bookmark title")
	fs.StringVar(&f.p.BookmarkColor, "color", "", "bookmark color, #rgb or #rrggbb")
	fs.StringVar(&f.p.Snippet, "snippet", "", "selected text")
	fs.StringVarP(&f.p.FileURL, "file", "f", "", "PDF file url")
	fs.StringVar(&f.p.CreatedAt, "created-at", "", "creation time, RFC 3339; now when empty")
}

// payload 合并文件与命令行参数，补齐 id 与创建时间
func (f *payloadFlags) payload(now func() time.Time, newID func() string) (pdflink.Payload, error) {
	p := pdflink.Payload{}
	if f.from != "" {
		raw, err := os.ReadFile(f.from)
		if err != nil {
			return p, errors.Wrap(err, "read payload file")
		}
		if err := sonic.ConfigStd.Unmarshal(jsonc.ToJSON(raw), &p); err != nil {
			return p, errors.Wrapf(err, "parse %s", f.from)
		}
	}
	mergePayload(&p, f.p)

	if p.LinkID == "" {
		p.LinkID = newID()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = now().UTC().Format(time.RFC3339)
	}
	p = p.WithBookmark(p.BookmarkTitle, p.BookmarkColor)
	return p, p.Validate()
}

func mergePayload(dst *pdflink.Payload, src pdflink.Payload) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.LinkID, src.LinkID)
	set(&dst.OutlineTitle, src.OutlineTitle)
	set(&dst.BookmarkTitle, src.BookmarkTitle)
	set(&dst.BookmarkColor, src.BookmarkColor)
	set(&dst.Snippet, src.Snippet)
	set(&dst.FileURL, src.FileURL)
	set(&dst.CreatedAt, src.CreatedAt)
	if src.PageNumber != 0 {
		dst.PageNumber = src.PageNumber
	}
}

type linkFormatFlags struct {
	locale   string
	timeZone string
}

func (f *linkFormatFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.locale, "locale", "en", "date locale, en or zh")
	fs.StringVar(&f.timeZone, "tz", "UTC", "time zone for dates")
}

func (f *linkFormatFlags) formatter() (*pdflink.DateFormatter, error) {
	loc, err := time.LoadLocation(f.timeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid time zone %q", f.timeZone)
	}
	return pdflink.NewDateFormatter(f.locale, loc), nil
}

type encodeFlags struct {
	payloadFlags
	linkFormatFlags
	html bool
	json bool
}

func runLinkEncode(out *linkOutput, f *encodeFlags) error {
	p, err := f.payload(time.Now, uuid.NewString)
	if err != nil {
		return err
	}
	a, err := pdflink.NewNodeAttrs(p)
	if err != nil {
		return err
	}
	out.println(a.Encoded)

	if f.html {
		fm, err := f.formatter()
		if err != nil {
			return err
		}
		if err := out.source(pdflink.RenderHTML(a, fm), "html"); err != nil {
			return err
		}
	}
	if f.json {
		raw, err := sonic.ConfigStd.MarshalIndent(pdflink.NewLinkDocNode(a), "", "  ")
		if err != nil {
			return err
		}
		if err := out.source(string(raw), "json"); err != nil {
			return err
		}
	}
	return nil
}

type decodeFlags struct {
	linkFormatFlags
	dump bool
}

func runLinkDecode(out *linkOutput, f *decodeFlags, encoded string) error {
	p, err := pdflink.Decode(strings.TrimSpace(encoded))
	if err != nil {
		return err
	}
	if f.dump {
		dump.NewWithOptions(func(o *dump.Options) {
			o.Output = out.w
			o.NoColor = !out.color
			o.ShowFlag = dump.Fnopos
		}).Print(p)
		return nil
	}

	fm, err := f.formatter()
	if err != nil {
		return err
	}
	out.println(out.chipLine(pdflink.SummaryOf(p), fm))

	raw, err := sonic.ConfigStd.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return out.source(string(raw), "json")
}

type scanFlags struct {
	linkFormatFlags
	text       bool
	markdown   bool
	noLegacy   bool
	showErrors bool
}

// runLinkScan 列出内容中的链接；--text 时从纯文本的隐藏标记恢复
func runLinkScan(out *linkOutput, f *scanFlags, content string) error {
	fm, err := f.formatter()
	if err != nil {
		return err
	}

	var summaries []pdflink.Summary
	if f.text {
		payloads, errs := pdflink.RecoverPayloads(content)
		for _, p := range payloads {
			summaries = append(summaries, pdflink.SummaryOf(p))
		}
		if f.showErrors {
			for _, e := range errs {
				out.println("skipped:", e)
			}
		}
	} else {
		ex := &pdflink.Extractor{Options: pdflink.RecognizeOptions{AcceptLegacySalt: !f.noLegacy}}
		if f.markdown {
			summaries = ex.ExtractMarkdown(content)
		} else {
			summaries = ex.Extract(content)
		}
	}

	for _, s := range summaries {
		out.println(out.chipLine(s, fm))
	}
	out.println(fmt.Sprintf("%d link(s)", len(summaries)))
	return nil
}

func runLinkPalette(out *linkOutput, color string) {
	p := pdflink.ResolvePalette(color)
	swatch := func(hex string) string {
		return out.renderer.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
	}
	name := out.renderer.NewStyle().Width(8)

	out.println(name.Render("accent"), p.Accent, swatch(p.Accent))
	out.println(name.Render("muted"), p.Muted, swatch(p.Muted))
	out.println(name.Render("border"), p.Border, swatch(p.Border))
	out.println(name.Render("halo"), p.Halo)
}

// readInput 读取文件内容，"-" 或空表示标准输入
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		return string(raw), err
	}
	raw, err := os.ReadFile(args[0])
	return string(raw), err
}

func init() {
	linkCmd := &cobra.Command{
		Use:   "link",
		Short: "Offline PDF link tools // PDF 链接离线工具",
	}

	enc := new(encodeFlags)
	encodeCmd := &cobra.Command{
		Use:   "encode --page N --file URL [flags]",
		Short: "Encode a payload and print the chip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinkEncode(newLinkOutput(os.Stdout), enc)
		},
	}
	enc.payloadFlags.bind(encodeCmd.Flags())
	enc.linkFormatFlags.bind(encodeCmd.Flags())
	encodeCmd.Flags().BoolVar(&enc.html, "html", false, "print the chip html")
	encodeCmd.Flags().BoolVar(&enc.json, "json", false, "print the editor json node")

	dec := new(decodeFlags)
	decodeCmd := &cobra.Command{
		Use:   "decode <encoded>",
		Short: "Verify and decode an encoded payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinkDecode(newLinkOutput(os.Stdout), dec, args[0])
		},
	}
	dec.linkFormatFlags.bind(decodeCmd.Flags())
	decodeCmd.Flags().BoolVar(&dec.dump, "dump", false, "dump the decoded struct")

	scan := new(scanFlags)
	scanCmd := &cobra.Command{
		Use:   "scan [file|-]",
		Short: "List the links of an html or editor json note, or recover them from plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return runLinkScan(newLinkOutput(os.Stdout), scan, content)
		},
	}
	scan.linkFormatFlags.bind(scanCmd.Flags())
	scanCmd.Flags().BoolVar(&scan.text, "text", false, "treat input as copied plain text")
	scanCmd.Flags().BoolVar(&scan.markdown, "markdown", false, "treat input as a markdown note")
	scanCmd.Flags().BoolVar(&scan.noLegacy, "no-legacy", false, "reject nodes with the previous salt")
	scanCmd.Flags().BoolVar(&scan.showErrors, "errors", false, "print payloads that failed to decode")

	paletteCmd := &cobra.Command{
		Use:   "palette <color>",
		Short: "Show the chip palette for a bookmark color",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			color := ""
			if len(args) > 0 {
				color = args[0]
			}
			runLinkPalette(newLinkOutput(os.Stdout), color)
		},
	}

	linkCmd.AddCommand(encodeCmd, decodeCmd, scanCmd, paletteCmd)
	rootCmd.AddCommand(linkCmd)
}

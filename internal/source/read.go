package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// Format identifies how raw bytes become text
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ReadText decodes plain text, dropping a UTF-8 byte order mark
func ReadText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), " "), nil
	}
	return string(data), nil
}

// ReadHTML returns visible text, skipping script and style content
func ReadHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return visibleText(doc), nil
}

func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		// input values carry form data (names, IDs) typed into saved pages
		if n.Type == html.ElementNode && n.Data == "input" {
			for _, a := range n.Attr {
				if a.Key == "value" && strings.TrimSpace(a.Val) != "" {
					buf.WriteString(strings.TrimSpace(a.Val))
					buf.WriteString(" ")
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

// ReadPDF extracts the text layer row by row. Scanned PDFs without a text
// layer yield empty text; OCR is out of scope.
func ReadPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		if buf.Len() > 0 && text != "" {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	return strings.TrimSpace(buf.String()), nil
}

func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	var buf strings.Builder
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		line := rowText(row.Content)
		if strings.TrimSpace(line) != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

// rowText joins glyph runs, inserting a space where the horizontal gap
// exceeds a fifth of the font size. Runs arrive left to right.
func rowText(runs []pdf.Text) string {
	var buf strings.Builder
	for i, t := range runs {
		buf.WriteString(t.S)
		if i == len(runs)-1 {
			break
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if runs[i+1].X-(t.X+t.W) > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// Decode converts raw bytes in the given format to text
func Decode(format Format, data []byte) (string, error) {
	switch format {
	case FormatText:
		return ReadText(data)
	case FormatHTML:
		return ReadHTML(bytes.NewReader(data))
	case FormatPDF:
		return ReadPDF(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
}

// Package pdftest builds small, well-formed PDFs in memory for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Text is one string drawn with Helvetica at (X, Y) in points.
type Text struct {
	X, Y float64
	Size float64
	S    string
}

// Page describes one page. Content, when set, is used verbatim as the content stream.
type Page struct {
	Width   float64
	Height  float64
	Texts   []Text
	Content string
}

// Letter returns a US Letter page carrying texts.
func Letter(texts ...Text) Page {
	return Page{Width: 612, Height: 792, Texts: texts}
}

func (p Page) stream() string {
	if p.Content != "" {
		return p.Content
	}
	var sb strings.Builder
	for _, t := range p.Texts {
		fmt.Fprintf(&sb, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(t.Size), num(t.X), num(t.Y), Escape(t.S))
	}
	return sb.String()
}

// Escape escapes a literal string operand.
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
}

// Build returns a complete PDF with the given pages, in order.
func Build(pages ...Page) []byte {
	// Object layout: 1 catalog, 2 pages, 3 font, then a page and content object per page.
	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, p := range pages {
		content := p.stream()
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
				num(p.Width), num(p.Height), 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

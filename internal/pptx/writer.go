// Package pptx packages slide sets as PowerPoint (OOXML) files and reads them back.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

const (
	// MediaType is the MIME type of a .pptx file.
	MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	// Extension is the output file extension.
	Extension = ".pptx"
	// EMUPerInch is the number of English Metric Units per inch.
	EMUPerInch = 914400

	defaultCreator = "pdf2pptx"

	// MinFontSize and MaxFontSize bound a run's point size to the range
	// a:rPr@sz accepts (100 to 400000 hundredths of a point).
	MinFontSize = 1.0
	MaxFontSize = 4000.0
)

// Writer serializes presentations. The zero value is not usable; call NewWriter.
type Writer struct {
	creator string
	now     func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock fixes the timestamp written to the document properties.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithCreator sets the application name written to the document properties.
func WithCreator(name string) Option {
	return func(w *Writer) { w.creator = name }
}

// NewWriter creates a new PPTX writer
func NewWriter(opts ...Option) *Writer {
	w := &Writer{creator: defaultCreator, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type slidePart struct {
	num   int
	name  string
	relID string
	media string
	slide domain.Slide
}

// Package serializes p. Failures are PackagingErrors and produce no bytes.
func (w *Writer) Package(p *domain.Presentation) ([]byte, error) {
	if p == nil {
		return nil, domain.PackagingError("no presentation to package", nil)
	}

	size := p.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = domain.Slide16x9
	}
	cx, cy := EMU(size.Width), EMU(size.Height)

	parts := make([]slidePart, len(p.Slides))
	for i, s := range p.Slides {
		n := i + 1
		part := slidePart{
			num:   n,
			name:  fmt.Sprintf("ppt/slides/slide%d.xml", n),
			relID: fmt.Sprintf("rId%d", firstSlideRel+i),
			slide: s,
		}
		if s.Background != nil {
			ext, err := mediaExtension(s.Background.ContentType)
			if err != nil {
				return nil, domain.PackagingError(fmt.Sprintf("slide %d background", n), err)
			}
			part.media = fmt.Sprintf("ppt/media/image%d.%s", n, ext)
		}
		parts[i] = part
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML(parts)},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(strings.TrimSuffix(p.FileName, Extension), w.creator, w.now().UTC().Format(time.RFC3339))},
		{"docProps/app.xml", appPropsXML(w.creator, len(parts))},
		{"ppt/presentation.xml", presentationXML(parts, cx, cy)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(parts)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML()},
		{"ppt/theme/theme1.xml", themeXML()},
	}
	for _, f := range files {
		if err := writeZipTextFile(zw, f.name, f.content); err != nil {
			_ = zw.Close()
			return nil, domain.PackagingError("write package part", err)
		}
	}

	for _, part := range parts {
		if part.media != "" {
			if err := writeZipBytes(zw, part.media, part.slide.Background.Data); err != nil {
				_ = zw.Close()
				return nil, domain.PackagingError("write slide media", err)
			}
		}
		if err := writeZipTextFile(zw, part.name, slideXML(part.slide, cx, cy)); err != nil {
			_ = zw.Close()
			return nil, domain.PackagingError("write slide", err)
		}
		rels := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", part.num)
		if err := writeZipTextFile(zw, rels, slideRelsXML(part.media)); err != nil {
			_ = zw.Close()
			return nil, domain.PackagingError("write slide relationships", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, domain.PackagingError("finish package", err)
	}
	return buf.Bytes(), nil
}

// OutputName derives "<stem>_converted.pptx" from the input file name.
func OutputName(inputName string) string {
	base := filepath.Base(strings.ReplaceAll(inputName, `\`, "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		stem = "presentation"
	}
	return stem + "_converted" + Extension
}

// EMU converts inches to English Metric Units.
func EMU(inches float64) int64 {
	return int64(math.Round(inches * EMUPerInch))
}

func mediaExtension(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "":
		return "jpeg", nil
	case "image/png":
		return "png", nil
	default:
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
}

func slideXML(s domain.Slide, cx, cy int64) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + pmlNamespaces + `>`)
	b.WriteString(`<p:cSld>`)
	if s.Background != nil {
		b.WriteString(`<p:bg><p:bgPr><a:blipFill dpi="0" rotWithShape="1"><a:blip r:embed="rId2"/><a:srcRect/><a:stretch><a:fillRect/></a:stretch></a:blipFill><a:effectLst/></p:bgPr></p:bg>`)
	}
	b.WriteString(`<p:spTree>`)
	b.WriteString(emptyGroup)
	for i, box := range s.TextBoxes {
		writeTextBox(&b, i+2, box)
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

// ClampFontSize limits size to [MinFontSize, MaxFontSize]. Packaged text
// boxes outside that range read back at the bound.
func ClampFontSize(size float64) float64 {
	return math.Min(math.Max(size, MinFontSize), MaxFontSize)
}

func writeTextBox(b *strings.Builder, id int, box domain.PlacedTextBox) {
	sz := int64(math.Round(ClampFontSize(box.FontSize) * 100))
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Text %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id-1)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
		EMU(box.X), EMU(box.Y), nonNegative(EMU(box.Width)), nonNegative(EMU(box.Height)))
	b.WriteString(`<p:txBody><a:bodyPr wrap="none" lIns="0" tIns="0" rIns="0" bIns="0" rtlCol="0" anchor="t"><a:noAutofit/></a:bodyPr><a:lstStyle/>`)
	fmt.Fprintf(b, `<a:p><a:r><a:rPr lang="en-US" sz="%d" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="%s"/><a:cs typeface="%s"/></a:rPr>`,
		sz, escape(box.Color), escape(box.FontFace), escape(box.FontFace))
	b.WriteString(`<a:t>` + escape(box.Text) + `</a:t></a:r></a:p></p:txBody></p:sp>`)
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func writeZipTextFile(writer *zip.Writer, name string, content string) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func writeZipBytes(writer *zip.Writer, name string, payload []byte) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

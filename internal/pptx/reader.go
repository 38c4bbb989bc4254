package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

type xmlRelationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func (r xmlRelationships) target(id string) (string, bool) {
	for _, rel := range r.Rels {
		if rel.ID == id {
			return rel.Target, true
		}
	}
	return "", false
}

type xmlPresentation struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
	Size struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

type xmlSlide struct {
	Background *struct {
		Blip *struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"bgPr>blipFill>blip"`
	} `xml:"cSld>bg"`
	Shapes []xmlShape `xml:"cSld>spTree>sp"`
}

type xmlShape struct {
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"spPr>xfrm>off"`
	Ext struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"spPr>xfrm>ext"`
	Paragraphs []struct {
		Runs []struct {
			Props struct {
				Size  int64 `xml:"sz,attr"`
				Color struct {
					Val string `xml:"val,attr"`
				} `xml:"solidFill>srgbClr"`
				Latin struct {
					Typeface string `xml:"typeface,attr"`
				} `xml:"latin"`
			} `xml:"rPr"`
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"txBody>p"`
}

// Read parses a .pptx produced by Writer, or any package with the same
// structure, back into a presentation. Slides come back in deck order.
func Read(data []byte) (*domain.Presentation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx: not a zip: %w", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var pres xmlPresentation
	if err := decodePart(files, "ppt/presentation.xml", &pres); err != nil {
		return nil, err
	}
	var presRels xmlRelationships
	if err := decodePart(files, "ppt/_rels/presentation.xml.rels", &presRels); err != nil {
		return nil, err
	}

	out := &domain.Presentation{
		Size: domain.SlideSize{
			Width:  float64(pres.Size.Cx) / EMUPerInch,
			Height: float64(pres.Size.Cy) / EMUPerInch,
		},
		Slides: make([]domain.Slide, 0, len(pres.SlideIDs)),
	}

	for i, id := range pres.SlideIDs {
		target, ok := presRels.target(id.RelID)
		if !ok {
			return nil, fmt.Errorf("slide %d: relationship %s not found", i+1, id.RelID)
		}
		slide, err := readSlide(files, path.Join("ppt", target), i+1)
		if err != nil {
			return nil, err
		}
		out.Slides = append(out.Slides, slide)
	}
	return out, nil
}

func readSlide(files map[string]*zip.File, name string, index int) (domain.Slide, error) {
	var xs xmlSlide
	if err := decodePart(files, name, &xs); err != nil {
		return domain.Slide{}, err
	}

	slide := domain.Slide{Index: index}

	if xs.Background != nil && xs.Background.Blip != nil {
		var rels xmlRelationships
		relsName := path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
		if err := decodePart(files, relsName, &rels); err != nil {
			return domain.Slide{}, err
		}
		target, ok := rels.target(xs.Background.Blip.Embed)
		if !ok {
			return domain.Slide{}, fmt.Errorf("%s: background relationship %s not found", name, xs.Background.Blip.Embed)
		}
		media := path.Join(path.Dir(name), target)
		payload, err := readPart(files, media)
		if err != nil {
			return domain.Slide{}, err
		}
		raster := &domain.RasterImage{
			Data:        payload,
			ContentType: mime.TypeByExtension(path.Ext(media)),
		}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(payload)); err == nil {
			raster.Width, raster.Height = cfg.Width, cfg.Height
		}
		slide.Background = raster
		return slide, nil
	}

	slide.TextBoxes = make([]domain.PlacedTextBox, 0, len(xs.Shapes))
	for _, sh := range xs.Shapes {
		box := domain.PlacedTextBox{
			X:      float64(sh.Off.X) / EMUPerInch,
			Y:      float64(sh.Off.Y) / EMUPerInch,
			Width:  float64(sh.Ext.Cx) / EMUPerInch,
			Height: float64(sh.Ext.Cy) / EMUPerInch,
		}
		var text strings.Builder
		for pi, p := range sh.Paragraphs {
			if pi > 0 {
				text.WriteByte('\n')
			}
			for ri, r := range p.Runs {
				if pi == 0 && ri == 0 {
					box.FontSize = float64(r.Props.Size) / 100
					box.Color = r.Props.Color.Val
					box.FontFace = r.Props.Latin.Typeface
				}
				text.WriteString(r.Text)
			}
		}
		box.Text = text.String()
		slide.TextBoxes = append(slide.TextBoxes, box)
	}
	return slide, nil
}

func readPart(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func decodePart(files map[string]*zip.File, name string, v interface{}) error {
	data, err := readPart(files, name)
	if err != nil {
		return err
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

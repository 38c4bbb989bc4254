package pdf

import (
	"errors"
	"fmt"
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

const (
	// kernSpaceThreshold is the TJ adjustment, in thousandths of an em, at or
	// below which the gap reads as a word break.
	kernSpaceThreshold = -200
	// defaultGlyphWidth stands in for fonts without a /Widths entry.
	defaultGlyphWidth = 500.0
)

type graphicsState struct {
	ctm   Matrix
	tc    float64
	tw    float64
	th    float64
	tl    float64
	tfs   float64
	trise float64
	font  string
}

type pageFont struct {
	font lpdf.Font
	enc  lpdf.TextEncoding
}

// textWalker interprets a page content stream and collects one run per
// text-showing operator.
type textWalker struct {
	page  lpdf.Page
	fonts map[string]*pageFont
	gs    graphicsState
	saved []graphicsState
	tm    Matrix
	tlm   Matrix
	runs  []domain.RawRun
	// err is the first malformed operator; later operators are ignored.
	err error
}

func newTextWalker(page lpdf.Page) *textWalker {
	return &textWalker{
		page:  page,
		fonts: make(map[string]*pageFont),
		gs:    graphicsState{ctm: IdentityMatrix(), th: 1},
		tm:    IdentityMatrix(),
		tlm:   IdentityMatrix(),
	}
}

// pageRuns walks every content stream of page.
func pageRuns(page lpdf.Page) (runs []domain.RawRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			runs = nil
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	if page.V.IsNull() {
		return nil, errors.New("page object not found")
	}

	w := newTextWalker(page)
	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case lpdf.Null:
		return nil, nil
	case lpdf.Array:
		for i := 0; i < contents.Len(); i++ {
			lpdf.Interpret(contents.Index(i), w.do)
		}
	default:
		lpdf.Interpret(contents, w.do)
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.runs, nil
}

func (w *textWalker) do(stk *lpdf.Stack, op string) {
	n := stk.Len()
	args := make([]lpdf.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = stk.Pop()
	}
	if w.err != nil {
		return
	}

	switch op {
	case "q":
		w.saved = append(w.saved, w.gs)
	case "Q":
		if len(w.saved) > 0 {
			w.gs = w.saved[len(w.saved)-1]
			w.saved = w.saved[:len(w.saved)-1]
		}
	case "cm":
		if m, ok := w.matrix(op, args); ok {
			w.gs.ctm = m.Multiply(w.gs.ctm)
		}
	case "BT":
		w.tm = IdentityMatrix()
		w.tlm = IdentityMatrix()
	case "Tm":
		if m, ok := w.matrix(op, args); ok {
			w.tm = m
			w.tlm = m
		}
	case "Td":
		if v, ok := w.numbers(op, args, 2); ok {
			w.nextLine(v[0], v[1])
		}
	case "TD":
		if v, ok := w.numbers(op, args, 2); ok {
			w.gs.tl = -v[1]
			w.nextLine(v[0], v[1])
		}
	case "T*":
		w.nextLine(0, -w.gs.tl)
	case "Tc":
		if v, ok := w.numbers(op, args, 1); ok {
			w.gs.tc = v[0]
		}
	case "Tw":
		if v, ok := w.numbers(op, args, 1); ok {
			w.gs.tw = v[0]
		}
	case "Tz":
		if v, ok := w.numbers(op, args, 1); ok {
			w.gs.th = v[0] / 100
		}
	case "TL":
		if v, ok := w.numbers(op, args, 1); ok {
			w.gs.tl = v[0]
		}
	case "Ts":
		if v, ok := w.numbers(op, args, 1); ok {
			w.gs.trise = v[0]
		}
	case "Tf":
		if len(args) == 2 {
			if v, ok := w.numbers(op, args[1:], 1); ok {
				w.gs.font = args[0].Name()
				w.gs.tfs = v[0]
			}
		}
	case "Tj":
		if len(args) == 1 {
			w.showString(args[0].RawString())
		}
	case "'":
		if len(args) == 1 {
			w.nextLine(0, -w.gs.tl)
			w.showString(args[0].RawString())
		}
	case "\"":
		if len(args) == 3 {
			if v, ok := w.numbers(op, args[:2], 2); ok {
				w.gs.tw = v[0]
				w.gs.tc = v[1]
				w.nextLine(0, -w.gs.tl)
				w.showString(args[2].RawString())
			}
		}
	case "TJ":
		if len(args) == 1 && args[0].Kind() == lpdf.Array {
			w.showArray(args[0])
		}
	}
}

// numbers reads want numeric operands. A wrong count leaves the operator
// ignored; a non-numeric operand records a malformed-operator error.
func (w *textWalker) numbers(op string, args []lpdf.Value, want int) ([]float64, bool) {
	if len(args) != want {
		return nil, false
	}
	v := make([]float64, want)
	for i, a := range args {
		switch a.Kind() {
		case lpdf.Integer, lpdf.Real:
			v[i] = a.Float64()
		default:
			w.err = fmt.Errorf("operator %s: operand %d is not a number: %v", op, i, a)
			return nil, false
		}
	}
	return v, true
}

func (w *textWalker) matrix(op string, args []lpdf.Value) (Matrix, bool) {
	v, ok := w.numbers(op, args, 6)
	if !ok {
		return Matrix{}, false
	}
	return Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}, true
}

func (w *textWalker) nextLine(tx, ty float64) {
	w.tlm = Translate(tx, ty).Multiply(w.tlm)
	w.tm = w.tlm
}

// renderMatrix is Trm = [Tfs·Th 0 0 Tfs 0 Trise] × Tm × CTM.
func (w *textWalker) renderMatrix() Matrix {
	tsm := Matrix{A: w.gs.tfs * w.gs.th, D: w.gs.tfs, F: w.gs.trise}
	return tsm.Multiply(w.tm).Multiply(w.gs.ctm)
}

func (w *textWalker) currentFont() *pageFont {
	if w.gs.font == "" {
		return nil
	}
	if f, ok := w.fonts[w.gs.font]; ok {
		return f
	}
	font := w.page.Font(w.gs.font)
	f := &pageFont{font: font}
	if !font.V.IsNull() {
		f.enc = font.Encoder()
	}
	w.fonts[w.gs.font] = f
	return f
}

func (w *textWalker) decode(raw string) string {
	if f := w.currentFont(); f != nil && f.enc != nil {
		return f.enc.Decode(raw)
	}
	return raw
}

// advance moves Tm past the glyphs of raw.
func (w *textWalker) advance(raw string) {
	f := w.currentFont()
	for i := 0; i < len(raw); i++ {
		code := int(raw[i])
		w0 := defaultGlyphWidth
		if f != nil {
			if gw := f.font.Width(code); gw > 0 {
				w0 = gw
			}
		}
		tx := w0/1000*w.gs.tfs + w.gs.tc
		if code == ' ' {
			tx += w.gs.tw
		}
		w.tm = Translate(tx*w.gs.th, 0).Multiply(w.tm)
	}
}

func (w *textWalker) showString(raw string) {
	start := w.renderMatrix()
	text := w.decode(raw)
	w.advance(raw)
	w.emit(text, start)
}

func (w *textWalker) showArray(arr lpdf.Value) {
	start := w.renderMatrix()
	var sb strings.Builder
	for i := 0; i < arr.Len(); i++ {
		el := arr.Index(i)
		switch el.Kind() {
		case lpdf.String:
			sb.WriteString(w.decode(el.RawString()))
			w.advance(el.RawString())
		case lpdf.Integer, lpdf.Real:
			adj := el.Float64()
			w.tm = Translate(-adj/1000*w.gs.tfs*w.gs.th, 0).Multiply(w.tm)
			if adj <= kernSpaceThreshold {
				sb.WriteByte(' ')
			}
		}
	}
	w.emit(sb.String(), start)
}

func (w *textWalker) emit(text string, start Matrix) {
	end := w.renderMatrix()
	w.runs = append(w.runs, domain.RawRun{
		Text: text,
		Transform: domain.Transform{
			A: start.A, B: start.B, C: start.C, D: start.D, E: start.E, F: start.F,
		},
		Advance: math.Hypot(end.E-start.E, end.F-start.F),
	})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfload

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// run is one shown string with the text state in effect when it was drawn.
type run struct {
	text    string
	size    float64
	bold    bool
	y       float64
	newLine bool
}

// operand is a content stream operand: a number, a name, a string or an
// array of those.
type operand struct {
	num   float64
	isNum bool
	name  string
	str   string
	isStr bool
	array []operand
}

// textState tracks the parts of the PDF text state that matter for layout.
type textState struct {
	font    string
	size    float64
	scale   float64
	y       float64
	leading float64
	newLine bool
}

// parseContent walks a page content stream and returns the text runs in
// drawing order. bold maps font resource names to their weight.
func parseContent(data []byte, bold map[string]bool) []run {
	var (
		runs  []run
		stack []operand
		st    = textState{scale: 1}
	)

	show := func(s string) {
		if s == "" {
			return
		}
		runs = append(runs, run{
			text:    s,
			size:    st.size * st.scale,
			bold:    bold[st.font],
			y:       st.y,
			newLine: st.newLine,
		})
		st.newLine = false
	}
	nextLine := func() {
		st.y -= st.leading
		st.newLine = true
	}
	num := func(i int) float64 {
		if i < 0 || i >= len(stack) || !stack[i].isNum {
			return 0
		}
		return stack[i].num
	}

	lx := lexer{data: data}
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.op == "" {
			stack = append(stack, tok.operand)
			continue
		}

		n := len(stack)
		switch tok.op {
		case "BT":
			st.y, st.scale, st.newLine = 0, 1, true
		case "Tf":
			if n >= 2 {
				st.font = stack[n-2].name
				st.size = num(n - 1)
			}
		case "TL":
			st.leading = num(n - 1)
		case "Td", "TD":
			ty := num(n - 1)
			if tok.op == "TD" {
				st.leading = -ty
			}
			if ty != 0 {
				st.y += ty * st.scale
				st.newLine = true
			}
		case "Tm":
			if n >= 6 {
				d := math.Abs(num(n - 3))
				if d == 0 {
					d = math.Abs(num(n - 6))
				}
				if d > 0 {
					st.scale = d
				}
				st.y = num(n - 1)
				st.newLine = true
			}
		case "T*":
			nextLine()
		case "Tj":
			if n >= 1 {
				show(stack[n-1].str)
			}
		case "'":
			nextLine()
			if n >= 1 {
				show(stack[n-1].str)
			}
		case "\"":
			nextLine()
			if n >= 1 {
				show(stack[n-1].str)
			}
		case "TJ":
			if n >= 1 {
				show(joinTJ(stack[n-1].array))
			}
		}
		stack = stack[:0]
	}
	return runs
}

// joinTJ concatenates the strings of a TJ array. Large negative kerning
// adjustments are word gaps.
func joinTJ(items []operand) string {
	var b strings.Builder
	for _, it := range items {
		switch {
		case it.isStr:
			b.WriteString(it.str)
		case it.isNum && it.num < -200:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// blockBuilder groups runs into blocks. A block ends when the font size or
// weight changes, or at a vertical gap wider than a normal line.
type blockBuilder struct {
	blocks []types.Block
	cur    *types.Block
	text   strings.Builder
	lastY  float64
	page   int
}

func (bb *blockBuilder) add(r run) {
	if strings.TrimSpace(r.text) == "" {
		if bb.cur != nil {
			bb.text.WriteByte(' ')
		}
		return
	}

	if bb.cur != nil {
		styleChanged := math.Abs(r.size-bb.cur.FontSize) > 0.5 || r.bold != bb.cur.IsBold
		gap := r.newLine && math.Abs(r.y-bb.lastY) > 1.8*math.Max(r.size, 1)
		if styleChanged || gap {
			bb.flush()
		}
	}

	if bb.cur == nil {
		bb.cur = &types.Block{FontSize: r.size, IsBold: r.bold, PageIndex: bb.page, YPosition: r.y}
	} else if r.newLine {
		bb.joinLine(r.text)
		bb.lastY = r.y
		return
	}
	bb.text.WriteString(r.text)
	bb.lastY = r.y
}

// joinLine appends a wrapped line, undoing end-of-line hyphenation.
func (bb *blockBuilder) joinLine(text string) {
	prev := bb.text.String()
	first, _ := firstRune(text)
	if strings.HasSuffix(prev, "-") && unicode.IsLower(first) {
		bb.text.Reset()
		bb.text.WriteString(strings.TrimSuffix(prev, "-"))
		bb.text.WriteString(text)
		return
	}
	if prev != "" && !strings.HasSuffix(prev, " ") {
		bb.text.WriteByte(' ')
	}
	bb.text.WriteString(text)
}

func (bb *blockBuilder) flush() {
	if bb.cur == nil {
		return
	}
	bb.cur.Text = strings.Join(strings.Fields(bb.text.String()), " ")
	if bb.cur.Text != "" {
		bb.blocks = append(bb.blocks, *bb.cur)
	}
	bb.cur = nil
	bb.text.Reset()
}

// newPage ends the current block and starts numbering on page.
func (bb *blockBuilder) newPage(page int) {
	bb.flush()
	bb.page = page
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// token is a lexed operand or operator.
type token struct {
	op      string
	operand operand
}

// lexer splits a content stream into tokens. Inline images and
// dictionaries are skipped.
type lexer struct {
	data []byte
	pos  int
}

func (lx *lexer) next() (token, bool) {
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.data) {
			return token{}, false
		}
		c := lx.data[lx.pos]
		switch {
		case c == '%':
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
		case c == '(':
			return token{operand: operand{str: lx.literal(), isStr: true}}, true
		case c == '<' && lx.peek(1) == '<':
			lx.skipDict()
		case c == '<':
			return token{operand: operand{str: lx.hex(), isStr: true}}, true
		case c == '[':
			lx.pos++
			return token{operand: operand{array: lx.array()}}, true
		case c == ']' || c == '>' || c == '{' || c == '}' || c == ')':
			lx.pos++
		case c == '/':
			lx.pos++
			return token{operand: operand{name: lx.word()}}, true
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			w := lx.word()
			f, err := strconv.ParseFloat(w, 64)
			if err != nil {
				continue
			}
			return token{operand: operand{num: f, isNum: true}}, true
		default:
			w := lx.word()
			if w == "" {
				lx.pos++
				continue
			}
			if w == "BI" {
				lx.skipInlineImage()
				continue
			}
			return token{op: w}, true
		}
	}
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off < len(lx.data) {
		return lx.data[lx.pos+off]
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.data) && isSpace(lx.data[lx.pos]) {
		lx.pos++
	}
}

func (lx *lexer) word() string {
	start := lx.pos
	for lx.pos < len(lx.data) && !isSpace(lx.data[lx.pos]) && !isDelim(lx.data[lx.pos]) {
		lx.pos++
	}
	return string(lx.data[start:lx.pos])
}

// literal reads a parenthesized string with balanced parens and escapes.
func (lx *lexer) literal() string {
	lx.pos++ // (
	var b []byte
	depth := 1
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		switch c {
		case '\\':
			if lx.pos >= len(lx.data) {
				break
			}
			e := lx.data[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				b = append(b, '\n')
			case 'r':
				b = append(b, '\r')
			case 't':
				b = append(b, '\t')
			case 'b', 'f':
			case '\r', '\n':
				if e == '\r' && lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
					lx.pos++
				}
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && lx.pos < len(lx.data) && lx.data[lx.pos] >= '0' && lx.data[lx.pos] <= '7'; i++ {
						v = v*8 + int(lx.data[lx.pos]-'0')
						lx.pos++
					}
					b = append(b, byte(v))
				} else {
					b = append(b, e)
				}
			}
		case '(':
			depth++
			b = append(b, c)
		case ')':
			depth--
			if depth == 0 {
				return latin1(b)
			}
			b = append(b, c)
		default:
			b = append(b, c)
		}
	}
	return latin1(b)
}

// hex reads a <...> string.
func (lx *lexer) hex() string {
	lx.pos++ // <
	var digits []byte
	for lx.pos < len(lx.data) && lx.data[lx.pos] != '>' {
		if c := lx.data[lx.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		lx.pos++
	}
	lx.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	b := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		b = append(b, byte(v))
	}
	return latin1(b)
}

func (lx *lexer) array() []operand {
	var items []operand
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.data) {
			return items
		}
		if lx.data[lx.pos] == ']' {
			lx.pos++
			return items
		}
		tok, ok := lx.next()
		if !ok {
			return items
		}
		if tok.op == "" {
			items = append(items, tok.operand)
		}
	}
}

func (lx *lexer) skipDict() {
	depth := 0
	for lx.pos+1 < len(lx.data) {
		switch {
		case lx.data[lx.pos] == '<' && lx.data[lx.pos+1] == '<':
			depth++
			lx.pos += 2
		case lx.data[lx.pos] == '>' && lx.data[lx.pos+1] == '>':
			depth--
			lx.pos += 2
			if depth == 0 {
				return
			}
		default:
			lx.pos++
		}
	}
	lx.pos = len(lx.data)
}

// skipInlineImage jumps past the binary data of a BI ... ID ... EI image.
func (lx *lexer) skipInlineImage() {
	for lx.pos+3 <= len(lx.data) {
		if isSpace(lx.data[lx.pos]) && lx.data[lx.pos+1] == 'E' && lx.data[lx.pos+2] == 'I' &&
			(lx.pos+3 == len(lx.data) || isSpace(lx.data[lx.pos+3])) {
			lx.pos += 3
			return
		}
		lx.pos++
	}
	lx.pos = len(lx.data)
}

// latin1 maps single-byte encoded text to UTF-8.
func latin1(b []byte) string {
	r := make([]rune, 0, len(b))
	for _, c := range b {
		if c < 0x20 && c != '\n' && c != '\t' {
			continue
		}
		r = append(r, rune(c))
	}
	return string(r)
}

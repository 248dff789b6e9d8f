package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes.
const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

const (
	alignLeft   = 0
	alignCenter = 1
)

const (
	fontNormal = 0x00
	fontDouble = 0x11
)

// DefaultWidth fits 58mm paper.
const DefaultWidth = 32

// document lays a receipt out in fixed-width columns. In plain mode the
// printer control codes are left out and the same layout becomes text.
type document struct {
	buf   bytes.Buffer
	width int
	plain bool
}

func newDocument(width int, plain bool) *document {
	if width <= 0 {
		width = DefaultWidth
	}
	d := &document{width: width, plain: plain}
	d.command(esc, '@')
	return d
}

func (d *document) command(b ...byte) *document {
	if !d.plain {
		d.buf.Write(b)
	}
	return d
}

func (d *document) align(a byte) *document { return d.command(esc, 'a', a) }

func (d *document) bold(on bool) *document {
	var b byte
	if on {
		b = 1
	}
	return d.command(esc, 'E', b)
}

func (d *document) fontSize(size byte) *document { return d.command(gs, '!', size) }

// center pads s in plain mode; the printer centers it otherwise.
func (d *document) center(s string) *document {
	if d.plain {
		pad := (d.width - utf8.RuneCountInString(s)) / 2
		if pad > 0 {
			s = strings.Repeat(" ", pad) + s
		}
	}
	return d.text(s)
}

func (d *document) text(s string) *document {
	d.buf.WriteString(s)
	d.buf.WriteByte(lf)
	return d
}

func (d *document) separator(char byte) *document {
	return d.text(strings.Repeat(string(char), d.width))
}

// keyValue prints key flush left and value flush right.
func (d *document) keyValue(key, value string) *document {
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	return d.text(key + strings.Repeat(" ", spaces) + value)
}

func (d *document) itemLine(qty int, name, total string) *document {
	return d.keyValue(fmt.Sprintf("%dx %s", qty, name), total)
}

func (d *document) feed(n int) *document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

func (d *document) cut() *document { return d.command(gs, 'V', 0x01) }

func (d *document) bytes() []byte { return d.buf.Bytes() }

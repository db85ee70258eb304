package ogex

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Encode writes a Document as OpenGEX text.
func Encode(w io.Writer, doc *Document, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent}
	for _, s := range doc.Structures {
		if err := wr.writeStructure(s); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeFile writes a Document to a file.
func EncodeFile(path string, doc *Document, opt *FormatOptions) error {
	b, err := Format(doc, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders a Document to bytes.
func Format(doc *Document, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes a Document to a writer.
type writer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	cache  []string  // Cache of indentation strings
	level  int       // Current nesting level
}

// writeStructure writes one structure and its content.
func (w *writer) writeStructure(s *Structure) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString(s.Kind); err != nil {
		return err
	}

	if s.Name != nil {
		if err := w.writeString(" " + s.Name.String()); err != nil {
			return err
		}
	}

	if len(s.Props) > 0 {
		if err := w.writeProps(s.Props); err != nil {
			return err
		}
	}

	if s.Data != nil {
		return w.writeDataBody(s.Data)
	}

	if err := w.writeString("\n"); err != nil {
		return err
	}
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("{\n"); err != nil {
		return err
	}
	w.level++
	for _, c := range s.Children {
		if err := w.writeStructure(c); err != nil {
			return err
		}
	}
	w.level--
	if err := w.writeIndent(); err != nil {
		return err
	}

	return w.writeString("}\n")
}

// writeProps writes a property list: (key = value, ...).
func (w *writer) writeProps(props []Property) error {
	if err := w.writeString(" ("); err != nil {
		return err
	}

	for i, p := range props {
		if i > 0 {
			if err := w.writeString(", "); err != nil {
				return err
			}
		}
		if err := w.writeString(p.Key + " = "); err != nil {
			return err
		}
		if err := w.writeValue(p.Value); err != nil {
			return err
		}
	}

	return w.writeString(")")
}

// writeDataBody writes a data array as the structure body:
// {type[N] { ... }} on an indented block of its own.
func (w *writer) writeDataBody(a *DataArray) error {
	if err := w.writeString("\n"); err != nil {
		return err
	}
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("{\n"); err != nil {
		return err
	}

	w.level++
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString(string(a.Type)); err != nil {
		return err
	}
	if a.Sub > 0 {
		if err := w.writeString("[" + strconv.Itoa(a.Sub) + "]"); err != nil {
			return err
		}
	}
	if err := w.writeString(" {"); err != nil {
		return err
	}
	if err := w.writeElements(a); err != nil {
		return err
	}
	if err := w.writeString("}\n"); err != nil {
		return err
	}
	w.level--

	if err := w.writeIndent(); err != nil {
		return err
	}

	return w.writeString("}\n")
}

// writeElements writes the element list, grouping subarrays.
func (w *writer) writeElements(a *DataArray) error {
	if a.Sub <= 0 {
		for i, v := range a.Values {
			if i > 0 {
				if err := w.writeString(", "); err != nil {
					return err
				}
			}
			if err := w.writeValue(v); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < len(a.Values); i += a.Sub {
		if i > 0 {
			if err := w.writeString(", "); err != nil {
				return err
			}
		}
		if err := w.writeString("{"); err != nil {
			return err
		}
		end := i + a.Sub
		if end > len(a.Values) {
			end = len(a.Values)
		}
		for j := i; j < end; j++ {
			if j > i {
				if err := w.writeString(", "); err != nil {
					return err
				}
			}
			if err := w.writeValue(a.Values[j]); err != nil {
				return err
			}
		}
		if err := w.writeString("}"); err != nil {
			return err
		}
	}

	return nil
}

// writeValue writes one literal value.
func (w *writer) writeValue(v Value) error {
	switch v.Kind {
	case ValueInt:
		return w.writeString(strconv.FormatInt(v.Int, 10))
	case ValueFloat:
		return w.writeFloat(v.Flt)
	case ValueBool:
		return w.writeString(strconv.FormatBool(v.Bool))
	case ValueString:
		return w.writeQuoted(v.Str)
	case ValueRef:
		return w.writeString(v.Ref.String())
	case ValueType:
		return w.writeString(string(v.Type))
	default:
		return nil
	}
}

// writeFloat writes a float64 value, preserving the format's reserved
// spellings for non-finite values.
func (w *writer) writeFloat(v float64) error {
	switch {
	case math.IsNaN(v):
		return w.writeString("nan")
	case math.IsInf(v, 1):
		return w.writeString("inf")
	case math.IsInf(v, -1):
		return w.writeString("-inf")
	}

	var buf [32]byte
	b := strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
	// An integral mantissa without exponent still lexes as a float once a
	// fraction is present.
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}
	_, err := w.w.Write(b)

	return err
}

// writeQuoted writes a string literal with escapes applied.
func (w *writer) writeQuoted(s string) error {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02X`, r)
			} else if r > 0xFFFF {
				fmt.Fprintf(&b, `\U%06X`, r)
			} else if r > unicode.MaxASCII {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')

	return w.writeString(b.String())
}

// writeIndent writes the current indentation level to the writer.
func (w *writer) writeIndent() error {
	if w.level <= 0 {
		return nil
	}

	// Cache repeated indentation strings per nesting level.
	return w.writeString(w.indentFor(w.level))
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// indentFor returns the cached indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

// Package codec codifica valores campo por campo en un formato binario con versión.
// Cada valor lleva delante una etiqueta de tipo de un byte, de modo que un lector
// detecta un desajuste de esquema en vez de interpretar bytes ajenos.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Etiquetas de tipo.
const (
	tagInt64   byte = 0x01
	tagString  byte = 0x02
	tagBool    byte = 0x03
	tagDecimal byte = 0x04
	tagTime    byte = 0x05
	tagLen     byte = 0x06
)

const maxStringLen = 1 << 20

// ErrMalformed el contenido no corresponde al formato esperado.
var ErrMalformed = errors.New("codec: datos mal formados")

// Writer acumula campos. No falla: los errores aparecen recién al leer.
type Writer struct {
	buf bytes.Buffer
	tmp [binary.MaxVarintLen64]byte
}

// NewWriter crea un writer con la cabecera magic + versión.
func NewWriter(magic string, version byte) *Writer {
	w := &Writer{}
	w.buf.WriteString(magic)
	w.buf.WriteByte(version)
	return w
}

func (w *Writer) varint(v int64) {
	n := binary.PutVarint(w.tmp[:], v)
	w.buf.Write(w.tmp[:n])
}

func (w *Writer) Int64(v int64) {
	w.buf.WriteByte(tagInt64)
	w.varint(v)
}

func (w *Writer) String(s string) {
	w.buf.WriteByte(tagString)
	w.varint(int64(len(s)))
	w.buf.WriteString(s)
}

func (w *Writer) Bool(b bool) {
	w.buf.WriteByte(tagBool)
	if b {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// Decimal se guarda como texto para no perder escala.
func (w *Writer) Decimal(d decimal.Decimal) {
	w.buf.WriteByte(tagDecimal)
	s := d.String()
	if d.Exponent() < 0 {
		s = d.StringFixed(-d.Exponent())
	}
	w.varint(int64(len(s)))
	w.buf.WriteString(s)
}

// Time en segundos Unix más nanosegundos, UTC; el instante cero se conserva como cero.
func (w *Writer) Time(t time.Time) {
	w.buf.WriteByte(tagTime)
	if t.IsZero() {
		w.buf.WriteByte(0)
		return
	}
	w.buf.WriteByte(1)
	w.varint(t.Unix())
	w.varint(int64(t.Nanosecond()))
}

// Len prefijo de una colección.
func (w *Writer) Len(n int) {
	w.buf.WriteByte(tagLen)
	w.varint(int64(n))
}

// Bytes contenido codificado.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Reader lee campos en el mismo orden en que se escribieron. El primer error
// queda fijado y las lecturas siguientes devuelven valores cero.
type Reader struct {
	r       *bytes.Reader
	err     error
	version byte
}

// NewReader valida la cabecera y devuelve el reader posicionado en el primer campo.
func NewReader(data []byte, magic string) (*Reader, error) {
	if len(data) < len(magic)+1 || string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: cabecera inválida", ErrMalformed)
	}
	return &Reader{r: bytes.NewReader(data[len(magic)+1:]), version: data[len(magic)]}, nil
}

// Version versión escrita en la cabecera.
func (r *Reader) Version() byte { return r.version }

// Err primer error de lectura, si hubo.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) {
	if r.err == nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: fin de datos inesperado", ErrMalformed)
		}
		r.err = err
	}
}

func (r *Reader) expect(tag byte) bool {
	if r.err != nil {
		return false
	}
	got, err := r.r.ReadByte()
	if err != nil {
		r.fail(err)
		return false
	}
	if got != tag {
		r.fail(fmt.Errorf("%w: etiqueta 0x%02x, se esperaba 0x%02x", ErrMalformed, got, tag))
		return false
	}
	return true
}

func (r *Reader) varint() int64 {
	v, err := binary.ReadVarint(r.r)
	if err != nil {
		r.fail(err)
		return 0
	}
	return v
}

func (r *Reader) text() string {
	n := r.varint()
	if r.err != nil {
		return ""
	}
	if n < 0 || n > maxStringLen || n > int64(r.r.Len()) {
		r.fail(fmt.Errorf("%w: longitud %d", ErrMalformed, n))
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.fail(err)
		return ""
	}
	return string(b)
}

func (r *Reader) Int64() int64 {
	if !r.expect(tagInt64) {
		return 0
	}
	return r.varint()
}

func (r *Reader) String() string {
	if !r.expect(tagString) {
		return ""
	}
	return r.text()
}

func (r *Reader) Bool() bool {
	if !r.expect(tagBool) {
		return false
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.fail(err)
		return false
	}
	return b == 1
}

func (r *Reader) Decimal() decimal.Decimal {
	if !r.expect(tagDecimal) {
		return decimal.Zero
	}
	s := r.text()
	if r.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.fail(fmt.Errorf("%w: decimal %q", ErrMalformed, s))
		return decimal.Zero
	}
	return d
}

func (r *Reader) Time() time.Time {
	if !r.expect(tagTime) {
		return time.Time{}
	}
	set, err := r.r.ReadByte()
	if err != nil {
		r.fail(err)
		return time.Time{}
	}
	if set == 0 {
		return time.Time{}
	}
	sec, nsec := r.varint(), r.varint()
	if r.err != nil {
		return time.Time{}
	}
	if nsec < 0 || nsec >= int64(time.Second) {
		r.fail(fmt.Errorf("%w: nanosegundos %d", ErrMalformed, nsec))
		return time.Time{}
	}
	return time.Unix(sec, nsec).UTC()
}

// Len lee el prefijo de una colección; max acota lo aceptable.
func (r *Reader) Len(max int) int {
	if !r.expect(tagLen) {
		return 0
	}
	n := r.varint()
	if r.err == nil && (n < 0 || n > int64(max)) {
		r.fail(fmt.Errorf("%w: colección de %d elementos", ErrMalformed, n))
		return 0
	}
	return int(n)
}

// Done verifica que no queden bytes sin leer.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.r.Len() != 0 {
		return fmt.Errorf("%w: %d bytes sobrantes", ErrMalformed, r.r.Len())
	}
	return nil
}

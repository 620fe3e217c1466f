package attr

import (
	"bytes"
	"fmt"
	"strings"
)

// Sentinel introduces a directive in the encoded byte stream. The byte after
// it is the group ordinal. DEL never survives line normalisation, so it does
// not occur in debugger output; source text containing it is rejected by
// Marshal.
const Sentinel byte = 0x7F

// Encode returns the two-byte directive for g.
func Encode(g Group) ([2]byte, error) {
	if !g.Valid() {
		return [2]byte{}, fmt.Errorf("%w: %d", ErrUnknownGroup, g)
	}
	return [2]byte{Sentinel, byte(g)}, nil
}

// Marshal encodes l as visible bytes interleaved with directives.
func Marshal(l Line) ([]byte, error) {
	if strings.IndexByte(l.text, Sentinel) >= 0 {
		return nil, ErrSentinelInText
	}
	out := make([]byte, 0, len(l.text)+2*len(l.marks))
	prev := 0
	for _, m := range l.marks {
		d, err := Encode(m.Group)
		if err != nil {
			return nil, err
		}
		out = append(out, l.text[prev:m.Offset]...)
		out = append(out, d[:]...)
		prev = m.Offset
	}
	out = append(out, l.text[prev:]...)
	return out, nil
}

// Unmarshal parses an encoded stream into a Line. Every directive becomes a
// mark, so Marshal(Unmarshal(b)) reproduces b.
func Unmarshal(stream []byte) (Line, error) {
	var (
		text  strings.Builder
		marks []Mark
	)
	text.Grow(len(stream))
	for i := 0; i < len(stream); i++ {
		c := stream[i]
		if c != Sentinel {
			text.WriteByte(c)
			continue
		}
		if i+1 >= len(stream) {
			return Line{}, fmt.Errorf("offset %d: %w", i, ErrDanglingSentinel)
		}
		g := Group(stream[i+1])
		if !g.Valid() {
			return Line{}, fmt.Errorf("offset %d: %w: %d", i, ErrUnknownGroup, g)
		}
		marks = append(marks, Mark{Offset: text.Len(), Group: g})
		i++
	}
	return Line{text: text.String(), marks: marks}, nil
}

// Strip removes every directive from stream and returns the visible bytes.
func Strip(stream []byte) ([]byte, error) {
	var out []byte
	d := NewDecoder(stream)
	for d.Next() {
		out = append(out, d.Run()...)
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decoder walks an encoded stream once, yielding runs of visible bytes with
// the group active for them. Consecutive directives only update the state.
//
//	d := attr.NewDecoder(stream)
//	for d.Next() {
//		paint(d.Run(), d.Group())
//	}
//	if err := d.Err(); err != nil { ... }
type Decoder struct {
	src   []byte
	pos   int
	group Group
	run   []byte
	err   error
}

// NewDecoder returns a decoder positioned at the start of stream with the
// implicit Text group active.
func NewDecoder(stream []byte) *Decoder {
	return &Decoder{src: stream}
}

// Next advances to the next run of visible bytes.
func (d *Decoder) Next() bool {
	if d.err != nil {
		return false
	}
	for d.pos < len(d.src) {
		if d.src[d.pos] != Sentinel {
			break
		}
		if d.pos+1 >= len(d.src) {
			d.err = fmt.Errorf("offset %d: %w", d.pos, ErrDanglingSentinel)
			return false
		}
		g := Group(d.src[d.pos+1])
		if !g.Valid() {
			d.err = fmt.Errorf("offset %d: %w: %d", d.pos, ErrUnknownGroup, g)
			return false
		}
		d.group = g
		d.pos += 2
	}
	if d.pos >= len(d.src) {
		return false
	}
	end := bytes.IndexByte(d.src[d.pos:], Sentinel)
	if end < 0 {
		end = len(d.src)
	} else {
		end += d.pos
	}
	d.run = d.src[d.pos:end]
	d.pos = end
	return true
}

// Run returns the current run. It aliases the decoder's input.
func (d *Decoder) Run() []byte { return d.run }

// Group returns the group active for the current run.
func (d *Decoder) Group() Group { return d.group }

// Err returns the first decoding error.
func (d *Decoder) Err() error { return d.err }

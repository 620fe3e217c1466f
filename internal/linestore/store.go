// Package linestore holds the scrollback of debugger output: an append-only
// list of attributed lines, the insertion cursor for the line still being
// written, and a scroll position that understands wrapped lines.
//
// Raw text is normalised as it arrives. Backspace and DEL step the cursor
// back, tabs expand to spaces, carriage return rewinds to column 0 and other
// control bytes are dropped. Only the last line is ever rewritten; each
// newline freezes it and opens a fresh one.
package linestore

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/cells"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/session"
)

var (
	// ErrRowOutOfRange is returned for rows outside [0, LineCount()).
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrTextMismatch is returned by ReplaceLine when the replacement does not
	// carry the same visible text as the stored line.
	ErrTextMismatch = errors.New("replacement changes the visible text")
)

// Classifier attributes one line of plain text.
type Classifier interface {
	Classify(text string) attr.Line
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(text string) attr.Line

// Classify calls f.
func (f ClassifierFunc) Classify(text string) attr.Line { return f(text) }

// Store is not safe for concurrent use; it belongs to the UI loop.
type Store struct {
	lines []attr.Line
	cols  []int // display width of each line

	open []string // clusters of the last line
	pos  int      // insertion cursor, in clusters

	tabStop    int
	classifier Classifier
	session    *session.State

	width int
	row   int // scroll position: logical row
	col   int // scroll position: display column, multiple of width
}

// Option configures a Store.
type Option func(*Store)

// WithTabStop sets the tab width used when expanding tabs.
func WithTabStop(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.tabStop = n
		}
	}
}

// WithClassifier attributes every line as it is written.
func WithClassifier(c Classifier) Option {
	return func(s *Store) { s.classifier = c }
}

// WithSession makes classification honour the session's suppression flags.
func WithSession(st *session.State) Option {
	return func(s *Store) { s.session = st }
}

// WithWidth sets the initial viewport width.
func WithWidth(w int) Option {
	return func(s *Store) { s.SetWidth(w) }
}

// New returns a store holding one blank line.
func New(opts ...Option) *Store {
	s := &Store{
		lines:   []attr.Line{attr.Plain("")},
		cols:    []int{0},
		tabStop: cells.DefaultTabStop,
		width:   80,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendRaw normalises raw and writes it at the insertion cursor. Each '\n'
// closes the current line. The scroll position moves to the end.
func (s *Store) AppendRaw(raw string) {
	segments := strings.Split(raw, "\n")
	if segments[0] != "" {
		s.parse(segments[0])
	}
	for _, seg := range segments[1:] {
		s.publishOpen()
		s.lines = append(s.lines, attr.Plain(""))
		s.cols = append(s.cols, 0)
		s.open = s.open[:0]
		s.pos = 0
		if seg != "" {
			s.parse(seg)
		}
	}
	s.publishOpen()
	log.Debug(log.CatStore, "appended", append(log.Pos(len(s.lines)-1, s.pos), "bytes", len(raw))...)
	s.End()
}

// parse applies one newline-free segment to the open line.
func (s *Store) parse(seg string) {
	it := cells.NewIterator(seg)
	for it.Next() {
		c := it.Cluster()
		switch c {
		case "\b", "\x7f":
			if s.pos > 0 {
				s.pos--
			}
		case "\t":
			for {
				s.put(" ")
				if s.column(s.pos)%s.tabStop == 0 {
					break
				}
			}
		case "\r":
			s.pos = 0
		default:
			if printable(c) {
				s.put(c)
			}
		}
	}

	// Drop trailing blanks past the cursor.
	end := len(s.open)
	for end-1 > s.pos && s.open[end-1] == " " {
		end--
	}
	s.open = s.open[:end]
}

func printable(cluster string) bool {
	r, size := utf8.DecodeRuneInString(cluster)
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return unicode.IsPrint(r)
}

func (s *Store) put(cluster string) {
	if s.pos < len(s.open) {
		s.open[s.pos] = cluster
	} else {
		s.open = append(s.open, cluster)
	}
	s.pos++
}

// column returns the display column of cluster index i on the open line.
func (s *Store) column(i int) int {
	w := 0
	for _, c := range s.open[:min(i, len(s.open))] {
		w += cells.Width(c)
	}
	return w
}

// publishOpen stores the open line, classified unless suppressed.
func (s *Store) publishOpen() {
	text := strings.Join(s.open, "")
	last := len(s.lines) - 1
	s.lines[last] = s.classify(text)
	s.cols[last] = cells.StringWidth(text)
}

func (s *Store) classify(text string) attr.Line {
	if s.classifier == nil || s.session.SuppressHighlight() || text == "" {
		return attr.Plain(text)
	}
	l := s.classifier.Classify(text)
	if l.Text() != text {
		log.Error(log.CatStore, "classifier changed text, storing plain", "want", text, "got", l.Text())
		return attr.Plain(text)
	}
	return l
}

// ReplaceLine installs an attributed version of row. The visible text must
// be unchanged.
func (s *Store) ReplaceLine(row int, line attr.Line) error {
	if err := s.check(row); err != nil {
		return err
	}
	if line.Text() != s.lines[row].Text() {
		return fmt.Errorf("row %d: %w", row, ErrTextMismatch)
	}
	s.lines[row] = line
	return nil
}

// LineCount returns the number of lines, including the open one.
func (s *Store) LineCount() int { return len(s.lines) }

// LineAt returns the attributed line at row.
func (s *Store) LineAt(row int) (attr.Line, error) {
	if err := s.check(row); err != nil {
		return attr.Line{}, err
	}
	return s.lines[row], nil
}

// Lines returns every stored line in order.
func (s *Store) Lines() []attr.Line {
	out := make([]attr.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// VisibleLength returns the logical length of row in bytes.
func (s *Store) VisibleLength(row int) (int, error) {
	if err := s.check(row); err != nil {
		return 0, err
	}
	return s.lines[row].Len(), nil
}

// Cursor returns the open row and the insertion cursor in clusters.
func (s *Store) Cursor() (row, pos int) {
	return len(s.lines) - 1, s.pos
}

func (s *Store) check(row int) error {
	if row < 0 || row >= len(s.lines) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(s.lines))
	}
	return nil
}

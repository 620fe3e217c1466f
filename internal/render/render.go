// Package render paints attributed lines onto a cell surface.
//
// Draw produces exactly width cells starting at a horizontal offset, both in
// display columns. Tabs expand to the next tab stop; a tab that straddles the
// offset leaves only its visible part as leading blanks. A wide cluster cut
// by either edge is shown as blanks. Lines shorter than the window are padded
// in the style active at the end of the line, and the style is always
// switched off after the last cell.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/cells"
	"github.com/zjrosen/hilite/internal/log"
)

// Surface receives cells and style switches in painting order.
type Surface interface {
	// AttrOn activates st for the following cells.
	AttrOn(st lipgloss.Style)
	// AttrOff deactivates st.
	AttrOff(st lipgloss.Style)
	// Put paints one cluster. Wide clusters occupy two columns.
	Put(cluster string)
}

// StyleLookup resolves a group to its display style.
type StyleLookup interface {
	AttrFor(g attr.Group) (lipgloss.Style, error)
}

// StyleLookupError reports a group the style table could not resolve.
type StyleLookupError struct {
	Group attr.Group
	Err   error
}

func (e *StyleLookupError) Error() string {
	return fmt.Sprintf("no style for group %s: %v", e.Group, e.Err)
}

func (e *StyleLookupError) Unwrap() error { return e.Err }

// Renderer paints lines using a style table and a tab stop.
type Renderer struct {
	styles  StyleLookup
	tabStop int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTabStop sets the tab width.
func WithTabStop(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tabStop = n
		}
	}
}

// New returns a renderer resolving styles through styles.
func New(styles StyleLookup, opts ...Option) *Renderer {
	r := &Renderer{styles: styles, tabStop: cells.DefaultTabStop}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TabStop returns the tab width in display columns.
func (r *Renderer) TabStop() int { return r.tabStop }

// Draw paints exactly width cells of line starting at display column offset.
func (r *Renderer) Draw(s Surface, line attr.Line, width, offset int) error {
	if width <= 0 {
		return nil
	}
	return r.draw(s, line, width, max(offset, 0))
}

// DrawFull paints the whole line with no clipping and no padding.
func (r *Renderer) DrawFull(s Surface, line attr.Line) error {
	return r.draw(s, line, -1, 0)
}

// draw is the single decode loop behind Draw and DrawFull. A negative width
// means unbounded, which also disables padding.
func (r *Renderer) draw(s Surface, line attr.Line, width, offset int) error {
	styles, err := r.resolve(line)
	if err != nil {
		return err
	}

	p := painter{surface: s, styles: styles, width: width}
	text := line.Text()
	col := 0

spans:
	for _, sp := range line.Spans() {
		it := cells.NewIterator(text[sp.Start:sp.End])
		for it.Next() {
			if p.full() {
				break spans
			}
			c := it.Cluster()
			if c == "\t" {
				next := cells.NextTabStop(col, r.tabStop)
				if next > offset {
					p.blanks(sp.Group, next-max(col, offset))
				}
				col = next
				continue
			}

			w := max(cells.Width(c), 1)
			switch {
			case col+w <= offset:
			case col < offset:
				p.blanks(sp.Group, col+w-offset)
			default:
				p.put(sp.Group, c, w)
			}
			col += w
		}
	}

	if width > 0 && !p.full() {
		p.blanks(line.TrailingGroup(), width-p.emitted)
	}
	p.off()
	return nil
}

// resolve looks up every style the line can switch to, so a lookup failure
// is reported before any cell is painted.
func (r *Renderer) resolve(line attr.Line) (map[attr.Group]lipgloss.Style, error) {
	out := make(map[attr.Group]lipgloss.Style, 4)
	need := []attr.Group{line.TrailingGroup()}
	for _, sp := range line.Spans() {
		need = append(need, sp.Group)
	}
	for _, g := range need {
		if _, ok := out[g]; ok {
			continue
		}
		st, err := r.styles.AttrFor(g)
		if err != nil {
			log.ErrorErr(log.CatRender, "style lookup failed", err, "group", g)
			return nil, &StyleLookupError{Group: g, Err: err}
		}
		out[g] = st
	}
	return out, nil
}

type painter struct {
	surface Surface
	styles  map[attr.Group]lipgloss.Style
	width   int // negative: unbounded
	emitted int
	active  attr.Group
	on      bool
}

func (p *painter) full() bool {
	return p.width >= 0 && p.emitted >= p.width
}

func (p *painter) room() int {
	if p.width < 0 {
		return int(^uint(0) >> 1)
	}
	return p.width - p.emitted
}

func (p *painter) switchTo(g attr.Group) {
	if p.on && p.active == g {
		return
	}
	if p.on {
		p.surface.AttrOff(p.styles[p.active])
	}
	p.surface.AttrOn(p.styles[g])
	p.active, p.on = g, true
}

func (p *painter) put(g attr.Group, cluster string, w int) {
	if w > p.room() {
		p.blanks(g, p.room())
		return
	}
	p.switchTo(g)
	p.surface.Put(cluster)
	p.emitted += w
}

func (p *painter) blanks(g attr.Group, n int) {
	n = min(n, p.room())
	if n <= 0 {
		return
	}
	p.switchTo(g)
	for range n {
		p.surface.Put(" ")
	}
	p.emitted += n
}

func (p *painter) off() {
	if p.on {
		p.surface.AttrOff(p.styles[p.active])
		p.on = false
	}
}

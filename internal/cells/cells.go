// Package cells measures text in terminal cells.
//
// Three units appear throughout hilite:
//
//  1. Bytes: logical offsets into a line's visible text. Marks, spans and
//     search results are expressed in bytes.
//  2. Clusters: grapheme clusters, what a user perceives as one character.
//     The line store's insertion cursor counts clusters.
//  3. Columns: terminal cells. ASCII = 1, CJK and most emoji = 2. Wrapping,
//     horizontal scroll offsets and tab stops count columns.
package cells

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabStop is the tab width used when none is configured.
const DefaultTabStop = 8

// Width returns the display width of a single grapheme cluster.
func Width(cluster string) int {
	if cluster == "" {
		return 0
	}
	return runewidth.StringWidth(cluster)
}

// StringWidth returns the total display width of s.
func StringWidth(s string) int {
	w := 0
	it := NewIterator(s)
	for it.Next() {
		w += Width(it.Cluster())
	}
	return w
}

// NextTabStop returns the first tab stop strictly after col.
func NextTabStop(col, tabStop int) int {
	if tabStop <= 0 {
		tabStop = DefaultTabStop
	}
	return (col/tabStop + 1) * tabStop
}

// ExpandedWidth returns the display width of s with tabs expanded to the
// next tab stop.
func ExpandedWidth(s string, tabStop int) int {
	w := 0
	it := NewIterator(s)
	for it.Next() {
		if it.Cluster() == "\t" {
			w = NextTabStop(w, tabStop)
			continue
		}
		w += Width(it.Cluster())
	}
	return w
}

// Iterator walks the grapheme clusters of a string.
//
//	it := cells.NewIterator(s)
//	for it.Next() {
//		fmt.Println(it.Index(), it.BytePos(), it.Cluster())
//	}
type Iterator struct {
	original string
	rest     string
	state    int
	cluster  string
	bytePos  int
	index    int
}

// NewIterator returns an iterator positioned before the first cluster of s.
func NewIterator(s string) *Iterator {
	return &Iterator{original: s, rest: s, state: -1, index: -1}
}

// Next advances to the next cluster.
func (it *Iterator) Next() bool {
	if len(it.rest) == 0 {
		return false
	}
	it.bytePos = len(it.original) - len(it.rest)
	it.index++
	cluster, rest, _, state := uniseg.StepString(it.rest, it.state)
	it.cluster = cluster
	it.rest = rest
	it.state = state
	return true
}

// Cluster returns the current cluster.
func (it *Iterator) Cluster() string { return it.cluster }

// BytePos returns the byte offset of the current cluster.
func (it *Iterator) BytePos() int { return it.bytePos }

// Index returns the cluster index of the current cluster, -1 before Next.
func (it *Iterator) Index() int { return it.index }

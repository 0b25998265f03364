package panel

import (
	"slices"
)

// Index is an immutable, sorted set of axis labels.
type Index struct {
	labels []string
	pos    map[string]int
}

// NewIndex sorts and de-duplicates labels.
func NewIndex(labels []string) Index {
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	pos := make(map[string]int, len(sorted))
	for i, label := range sorted {
		pos[label] = i
	}

	return Index{labels: sorted, pos: pos}
}

func (x Index) Len() int {
	return len(x.labels)
}

// Labels returns a copy of the labels in index order.
func (x Index) Labels() []string {
	return slices.Clone(x.labels)
}

func (x Index) Label(i int) string {
	return x.labels[i]
}

func (x Index) Lookup(label string) (int, bool) {
	i, ok := x.pos[label]
	return i, ok
}

func (x Index) Contains(label string) bool {
	_, ok := x.pos[label]
	return ok
}

func (x Index) Equal(other Index) bool {
	return slices.Equal(x.labels, other.labels)
}

// diff counts labels only in x and only in other.
func (x Index) diff(other Index) (onlyX, onlyOther int) {
	for _, label := range x.labels {
		if !other.Contains(label) {
			onlyX++
		}
	}
	for _, label := range other.labels {
		if !x.Contains(label) {
			onlyOther++
		}
	}
	return onlyX, onlyOther
}

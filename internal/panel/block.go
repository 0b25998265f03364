package panel

import (
	"fmt"
	"math"
	"slices"
	"time"

	"rollpanel/pkg/exception"
)

// Float is the element type a panel can hold. NaN marks a missing value.
type Float interface {
	~float32 | ~float64
}

// Frame maps field -> column -> value for one tick.
type Frame[T Float] map[string]map[string]T

// Missing returns the NaN sentinel for T.
func Missing[T Float]() T {
	return T(math.NaN())
}

// IsMissing reports whether v is the NaN sentinel.
func IsMissing[T Float](v T) bool {
	return math.IsNaN(float64(v))
}

func fillMissing[T Float](values []T) {
	nan := Missing[T]()
	for i := range values {
		values[i] = nan
	}
}

// Block is an owned copy of a run of slots.
//
// Values are laid out item-major, then slot, then column.
type Block[T Float] struct {
	Items   []string
	Columns []string
	Dates   []time.Time
	Values  []T
}

// NewBlock allocates a block filled with NaN.
func NewBlock[T Float](items, columns []string, dates []time.Time) *Block[T] {
	b := &Block[T]{
		Items:   slices.Clone(items),
		Columns: slices.Clone(columns),
		Dates:   slices.Clone(dates),
		Values:  make([]T, len(items)*len(dates)*len(columns)),
	}
	fillMissing(b.Values)
	return b
}

// Len returns the number of slots in the block.
func (b *Block[T]) Len() int {
	return len(b.Dates)
}

// Shape returns (items, slots, columns).
func (b *Block[T]) Shape() [3]int {
	return [3]int{len(b.Items), len(b.Dates), len(b.Columns)}
}

func (b *Block[T]) offset(i, t, c int) int {
	return (i*len(b.Dates)+t)*len(b.Columns) + c
}

func (b *Block[T]) At(i, t, c int) T {
	return b.Values[b.offset(i, t, c)]
}

func (b *Block[T]) Set(i, t, c int, v T) {
	b.Values[b.offset(i, t, c)] = v
}

// Get looks a value up by labels.
func (b *Block[T]) Get(item string, t int, column string) (T, bool) {
	i := slices.Index(b.Items, item)
	c := slices.Index(b.Columns, column)
	if i < 0 || c < 0 || t < 0 || t >= b.Len() {
		return 0, false
	}
	return b.At(i, t, c), true
}

// Series returns the values of one item/column pair across the block's slots.
func (b *Block[T]) Series(item, column string) ([]T, bool) {
	i := slices.Index(b.Items, item)
	c := slices.Index(b.Columns, column)
	if i < 0 || c < 0 {
		return nil, false
	}
	out := make([]T, b.Len())
	for t := range out {
		out[t] = b.At(i, t, c)
	}
	return out, true
}

// Frame returns the non-missing values of slot t.
func (b *Block[T]) Frame(t int) Frame[T] {
	frame := make(Frame[T], len(b.Items))
	for i, item := range b.Items {
		row := make(map[string]T, len(b.Columns))
		for c, column := range b.Columns {
			if v := b.At(i, t, c); !IsMissing(v) {
				row[column] = v
			}
		}
		frame[item] = row
	}
	return frame
}

// Slice is an owned copy of a single slot.
type Slice[T Float] struct {
	Items   []string
	Columns []string
	Date    time.Time
	Values  []T
}

func (s Slice[T]) At(i, c int) T {
	return s.Values[i*len(s.Columns)+c]
}

func (s Slice[T]) Get(item, column string) (T, bool) {
	i := slices.Index(s.Items, item)
	c := slices.Index(s.Columns, column)
	if i < 0 || c < 0 {
		return 0, false
	}
	return s.At(i, c), true
}

// ShapeError reports a block whose shape does not match the visible window.
type ShapeError struct {
	Expected [3]int
	Actual   [3]int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", exception.ErrShapeMismatch, e.Expected, e.Actual)
}

func (e *ShapeError) Unwrap() error {
	return exception.ErrShapeMismatch
}

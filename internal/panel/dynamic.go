package panel

import (
	"time"
)

// Dynamic is a Rolling buffer whose axes follow the frames appended to it.
//
// A frame carrying an unseen field or column triggers a rebuild: labels with
// no value left in the window are retired, the frame's labels are added, and
// the history of every surviving label is copied over unchanged.
//
// Read methods are promoted from the wrapped buffer. The buffer is replaced
// on rebuild, so a *Rolling obtained from Store must not be kept across
// appends.
type Dynamic[T Float] struct {
	*Rolling[T]
}

func NewDynamic[T Float](cfg Config, items, columns []string) (*Dynamic[T], error) {
	p, err := New[T](cfg, items, columns)
	if err != nil {
		return nil, err
	}

	return &Dynamic[T]{Rolling: p}, nil
}

// Store returns the buffer currently backing d.
func (d *Dynamic[T]) Store() *Rolling[T] {
	return d.Rolling
}

// Append reconciles the axes with frame when needed, then writes it.
func (d *Dynamic[T]) Append(tick time.Time, frame Frame[T]) error {
	if d.hasUnseen(frame) {
		if err := d.reconcile(frame); err != nil {
			return err
		}
	}

	d.appendFrame(tick, frame)
	return nil
}

func (d *Dynamic[T]) hasUnseen(frame Frame[T]) bool {
	for field, row := range frame {
		if !d.items.Contains(field) {
			return true
		}
		for column := range row {
			if !d.columns.Contains(column) {
				return true
			}
		}
	}
	return false
}

func (d *Dynamic[T]) reconcile(frame Frame[T]) error {
	started := time.Now()
	p := d.Rolling

	// The window looks the same before and after a pending roll, so the
	// analysis runs on the live buffer and the roll is left to appendFrame.
	lo, hi := p.bounds()
	if p.pos >= p.window {
		// the earliest slot leaves the window with this append
		lo++
	}

	liveItems, liveColumns := p.liveLabels(lo, hi)
	for field, row := range frame {
		liveItems = append(liveItems, field)
		for column := range row {
			liveColumns = append(liveColumns, column)
		}
	}

	items, columns := NewIndex(liveItems), NewIndex(liveColumns)
	if items.Equal(p.items) && columns.Equal(p.columns) {
		return nil
	}

	rebuilt, err := newRolling[T](p.cfg, items, columns)
	if err != nil {
		return err
	}
	rebuilt.migrate(p)

	droppedItems, addedItems := p.items.diff(items)
	droppedColumns, addedColumns := p.columns.diff(columns)
	p.cfg.Metrics.ObserveRebuild(time.Since(started), droppedItems, addedItems, droppedColumns, addedColumns)

	d.Rolling = rebuilt
	return nil
}

// liveLabels returns the items and columns holding at least one value in
// slots [lo, hi).
func (p *Rolling[T]) liveLabels(lo, hi int) (items, columns []string) {
	ncols := p.columns.Len()
	liveColumn := make([]bool, ncols)
	for i := range p.items.Len() {
		live := false
		for t := lo; t < hi; t++ {
			start := p.offset(i, t, 0)
			for c, v := range p.values[start : start+ncols] {
				if !IsMissing(v) {
					live = true
					liveColumn[c] = true
				}
			}
		}
		if live {
			items = append(items, p.items.Label(i))
		}
	}

	for c, live := range liveColumn {
		if live {
			columns = append(columns, p.columns.Label(c))
		}
	}
	return items, columns
}

// migrate copies every slot of the labels p shares with old, along with the
// cursor and ticks.
func (p *Rolling[T]) migrate(old *Rolling[T]) {
	colPairs := make([][2]int, 0, p.columns.Len())
	for c := range p.columns.Len() {
		if oc, ok := old.columns.Lookup(p.columns.Label(c)); ok {
			colPairs = append(colPairs, [2]int{c, oc})
		}
	}

	for i := range p.items.Len() {
		oi, ok := old.items.Lookup(p.items.Label(i))
		if !ok {
			continue
		}
		for t := range p.cap {
			dst, src := p.offset(i, t, 0), old.offset(oi, t, 0)
			for _, pair := range colPairs {
				p.values[dst+pair[0]] = old.values[src+pair[1]]
			}
		}
	}

	copy(p.dates, old.dates)
	p.pos = old.pos
}

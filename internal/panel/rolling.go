package panel

import (
	"time"

	"rollpanel/internal/errors"
	"rollpanel/pkg/exception"
)

// Rolling keeps the last Window frames retrievable out of a buffer of
// Window x CapMultiple slots. The window is copied back to the front of the
// buffer once every slot has been written, so appends do not allocate.
//
// Rolling is not safe for concurrent use.
type Rolling[T Float] struct {
	cfg     Config
	window  int
	cap     int
	items   Index
	columns Index

	values []T
	dates  []time.Time
	pos    int
}

// New validates the config and allocates a buffer filled with NaN.
func New[T Float](cfg Config, items, columns []string) (*Rolling[T], error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newRolling[T](cfg, NewIndex(items), NewIndex(columns))
}

func newRolling[T Float](cfg Config, items, columns Index) (*Rolling[T], error) {
	n, err := cfg.cells(items.Len(), columns.Len())
	if err != nil {
		return nil, err
	}

	p := &Rolling[T]{
		cfg:     cfg,
		window:  cfg.Window,
		cap:     cfg.capacity(),
		items:   items,
		columns: columns,
		values:  make([]T, n),
		dates:   make([]time.Time, cfg.capacity()),
	}
	fillMissing(p.values)

	return p, nil
}

func (p *Rolling[T]) Window() int {
	return p.window
}

// Cap returns the number of slots in the buffer.
func (p *Rolling[T]) Cap() int {
	return p.cap
}

// Pos returns the write cursor.
func (p *Rolling[T]) Pos() int {
	return p.pos
}

// Len returns the number of slots currently in view.
func (p *Rolling[T]) Len() int {
	lo, hi := p.bounds()
	return hi - lo
}

func (p *Rolling[T]) Items() []string {
	return p.items.Labels()
}

func (p *Rolling[T]) Columns() []string {
	return p.columns.Labels()
}

func (p *Rolling[T]) Config() Config {
	return p.cfg
}

func (p *Rolling[T]) bounds() (lo, hi int) {
	return max(p.pos-p.window, 0), p.pos
}

func (p *Rolling[T]) offset(i, t, c int) int {
	return (i*p.cap+t)*p.columns.Len() + c
}

// Append writes frame into the next slot. Every field and column of frame
// must already be on the axes; otherwise nothing is written.
func (p *Rolling[T]) Append(tick time.Time, frame Frame[T]) error {
	if err := p.checkLabels(frame); err != nil {
		p.cfg.Metrics.IncUnknownLabel()
		return err
	}

	p.appendFrame(tick, frame)
	return nil
}

func (p *Rolling[T]) checkLabels(frame Frame[T]) error {
	for field, row := range frame {
		if !p.items.Contains(field) {
			return errors.Wrapf(exception.ErrUnknownLabel, "field %q", field)
		}
		for column := range row {
			if !p.columns.Contains(column) {
				return errors.Wrapf(exception.ErrUnknownLabel, "column %q", column)
			}
		}
	}
	return nil
}

// appendFrame assumes the labels of frame are on the axes.
func (p *Rolling[T]) appendFrame(tick time.Time, frame Frame[T]) {
	if p.pos == p.cap {
		p.roll()
	}

	p.writeSlot(p.pos, frame)
	p.dates[p.pos] = tick
	p.pos++

	p.cfg.Metrics.IncAppend()
}

func (p *Rolling[T]) writeSlot(t int, frame Frame[T]) {
	ncols := p.columns.Len()
	if p.cfg.Fill == FillMissing {
		for i := range p.items.Len() {
			start := p.offset(i, t, 0)
			fillMissing(p.values[start : start+ncols])
		}
	}

	for field, row := range frame {
		i, _ := p.items.Lookup(field)
		for column, v := range row {
			c, _ := p.columns.Lookup(column)
			p.values[p.offset(i, t, c)] = v
		}
	}
}

// roll moves the last window of slots to the front of the buffer. When the
// buffer holds exactly one window, the oldest slot is dropped to make room for
// the next write.
func (p *Rolling[T]) roll() {
	keep := min(p.window, p.cap-1)
	ncols := p.columns.Len()
	span := keep * ncols
	from := (p.cap - keep) * ncols
	for i := range p.items.Len() {
		base := i * p.cap * ncols
		copy(p.values[base:base+span], p.values[base+from:base+from+span])
	}
	copy(p.dates[:keep], p.dates[p.cap-keep:])
	p.pos = keep

	p.cfg.Metrics.IncRoll()
}

// CurrentWindow returns a copy of the slots in view, oldest first.
func (p *Rolling[T]) CurrentWindow() *Block[T] {
	lo, hi := p.bounds()
	n := hi - lo
	ncols := p.columns.Len()

	b := &Block[T]{
		Items:   p.items.Labels(),
		Columns: p.columns.Labels(),
		Dates:   append([]time.Time(nil), p.dates[lo:hi]...),
		Values:  make([]T, p.items.Len()*n*ncols),
	}
	for i := range p.items.Len() {
		src := p.offset(i, lo, 0)
		copy(b.Values[i*n*ncols:(i+1)*n*ncols], p.values[src:src+n*ncols])
	}

	return b
}

// CurrentDates returns a copy of the ticks in view, oldest first.
func (p *Rolling[T]) CurrentDates() []time.Time {
	lo, hi := p.bounds()
	return append([]time.Time(nil), p.dates[lo:hi]...)
}

// SetCurrent overwrites the values in view with b. Labels and dates of b are
// ignored; only its shape has to match CurrentWindow.
func (p *Rolling[T]) SetCurrent(b *Block[T]) error {
	lo, hi := p.bounds()
	n := hi - lo
	ncols := p.columns.Len()

	expected := [3]int{p.items.Len(), n, ncols}
	var actual [3]int
	if b != nil {
		actual = b.Shape()
	}
	if b == nil || actual != expected || len(b.Values) != expected[0]*n*ncols {
		p.cfg.Metrics.IncShapeReject()
		return &ShapeError{Expected: expected, Actual: actual}
	}

	for i := range p.items.Len() {
		dst := p.offset(i, lo, 0)
		copy(p.values[dst:dst+n*ncols], b.Values[i*n*ncols:(i+1)*n*ncols])
	}

	return nil
}

// OldestFrame returns a copy of the earliest slot in view. It reports false
// before the first append.
func (p *Rolling[T]) OldestFrame() (Slice[T], bool) {
	if p.pos == 0 {
		return Slice[T]{}, false
	}

	t, _ := p.bounds()
	ncols := p.columns.Len()
	s := Slice[T]{
		Items:   p.items.Labels(),
		Columns: p.columns.Labels(),
		Date:    p.dates[t],
		Values:  make([]T, p.items.Len()*ncols),
	}
	for i := range p.items.Len() {
		src := p.offset(i, t, 0)
		copy(s.Values[i*ncols:(i+1)*ncols], p.values[src:src+ncols])
	}

	return s, true
}

// SetColumns replaces the column axis and resets every value to NaN. The
// write cursor and ticks are kept.
func (p *Rolling[T]) SetColumns(columns []string) error {
	index := NewIndex(columns)
	n, err := p.cfg.cells(p.items.Len(), index.Len())
	if err != nil {
		return err
	}

	values := make([]T, n)
	fillMissing(values)

	p.columns = index
	p.values = values
	return nil
}

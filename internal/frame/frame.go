package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the storage type of a column.
type Kind int

const (
	// KindString stores cells as free text.
	KindString Kind = iota

	// KindCategory stores cells as levels plus integer codes.
	KindCategory

	// KindNumeric stores cells as float64; missing cells are NaN.
	KindNumeric
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindCategory:
		return "category"
	case KindNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name as written in configuration files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "text", "character":
		return KindString, nil
	case "category", "factor":
		return KindCategory, nil
	case "numeric", "number", "double":
		return KindNumeric, nil
	default:
		return KindString, fmt.Errorf("unknown column kind %q", s)
	}
}

// Schema maps normalized column names to their kinds.
type Schema map[string]Kind

// Column is a single named, typed column.
type Column struct {
	// Name is the column header as it appears in the frame.
	Name string

	// Kind is the storage type.
	Kind Kind

	strings []string
	levels  []string
	codes   []int
	numbers []float64
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindCategory:
		return len(c.codes)
	case KindNumeric:
		return len(c.numbers)
	default:
		return len(c.strings)
	}
}

// Text returns cell i rendered as text.
// Missing numeric cells render as the empty string.
func (c *Column) Text(i int) string {
	switch c.Kind {
	case KindCategory:
		return c.levels[c.codes[i]]
	case KindNumeric:
		v := c.numbers[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return c.strings[i]
	}
}

// Float returns numeric cell i, or NaN for missing and non-numeric columns.
func (c *Column) Float(i int) float64 {
	if c.Kind != KindNumeric {
		return math.NaN()
	}
	return c.numbers[i]
}

// Levels returns the distinct values of a category column in first-seen order.
func (c *Column) Levels() []string {
	out := make([]string, len(c.levels))
	copy(out, c.levels)
	return out
}

// Frame is an immutable-length table of equally long columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a frame from columns. All columns must have the same length
// and distinct names.
func New(columns ...*Column) (*Frame, error) {
	f := &Frame{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := f.index[c.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		f.index[c.Name] = i
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, fmt.Errorf("column %q has %d cells, expected %d", c.Name, c.Len(), f.rows)
		}
	}
	return f, nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	return f.rows
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// Rename applies fn to every column name.
// It fails without modifying the frame if two names collide.
func (f *Frame) Rename(fn func(string) string) error {
	renamed := make([]string, len(f.columns))
	index := make(map[string]int, len(f.columns))
	for i, c := range f.columns {
		name := fn(c.Name)
		if _, ok := index[name]; ok {
			return fmt.Errorf("%w: %q after renaming", ErrDuplicateColumn, name)
		}
		index[name] = i
		renamed[i] = name
	}
	for i, c := range f.columns {
		c.Name = renamed[i]
	}
	f.index = index
	return nil
}

// RequireColumns returns ErrMissingColumn naming every absent column.
func (f *Frame) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := f.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (have %s)", ErrMissingColumn,
			strings.Join(missing, ", "), strings.Join(f.Names(), ", "))
	}
	return nil
}

package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnKind identifies how a column's cells are stored
type ColumnKind string

const (
	KindText   ColumnKind = "text"
	KindNumber ColumnKind = "number"
	KindDate   ColumnKind = "date"
)

// Column is a single named column with a validity mask.
// A cell whose Valid flag is false is an absent value.
type Column struct {
	Name  string
	Kind  ColumnKind
	Text  []string
	Num   []float64
	Date  []time.Time
	Valid []bool
}

// NewTextColumn creates a text column with n absent cells
func NewTextColumn(name string, n int) *Column {
	return &Column{Name: name, Kind: KindText, Text: make([]string, n), Valid: make([]bool, n)}
}

// NewNumberColumn creates a numeric column with n absent cells
func NewNumberColumn(name string, n int) *Column {
	return &Column{Name: name, Kind: KindNumber, Num: make([]float64, n), Valid: make([]bool, n)}
}

// NewDateColumn creates a date column with n absent cells
func NewDateColumn(name string, n int) *Column {
	return &Column{Name: name, Kind: KindDate, Date: make([]time.Time, n), Valid: make([]bool, n)}
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Valid)
}

// IsAbsent reports whether row i has no usable value
func (c *Column) IsAbsent(i int) bool {
	return !c.Valid[i]
}

// AbsentCount returns the number of absent cells
func (c *Column) AbsentCount() int {
	n := 0
	for _, ok := range c.Valid {
		if !ok {
			n++
		}
	}
	return n
}

// SetText stores a present text value
func (c *Column) SetText(i int, v string) {
	c.Text[i] = v
	c.Valid[i] = true
}

// SetNumber stores a present numeric value
func (c *Column) SetNumber(i int, v float64) {
	c.Num[i] = v
	c.Valid[i] = true
}

// SetDate stores a present date value
func (c *Column) SetDate(i int, v time.Time) {
	c.Date[i] = v
	c.Valid[i] = true
}

// SetAbsent clears row i
func (c *Column) SetAbsent(i int) {
	c.Valid[i] = false
	switch c.Kind {
	case KindText:
		c.Text[i] = ""
	case KindNumber:
		c.Num[i] = 0
	case KindDate:
		c.Date[i] = time.Time{}
	}
}

// Numbers returns the present values of a numeric column in row order
func (c *Column) Numbers() []float64 {
	if c.Kind != KindNumber {
		return nil
	}
	out := make([]float64, 0, len(c.Num))
	for i, v := range c.Num {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// String renders row i as text regardless of the column kind.
// Absent cells render as the empty string.
func (c *Column) String(i int) string {
	if !c.Valid[i] {
		return ""
	}
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num[i], 'f', -1, 64)
	case KindDate:
		return c.Date[i].Format(DateLayout)
	default:
		return c.Text[i]
	}
}

// ToText converts the column to text in place, keeping absent cells absent
func (c *Column) ToText() {
	if c.Kind == KindText {
		return
	}
	text := make([]string, c.Len())
	for i := range text {
		text[i] = c.String(i)
	}
	c.Text, c.Num, c.Date = text, nil, nil
	c.Kind = KindText
}

func (c *Column) appendFrom(src *Column, n int) {
	for i := 0; i < n; i++ {
		present := src != nil && src.Valid[i]
		c.Valid = append(c.Valid, present)
		switch c.Kind {
		case KindText:
			v := ""
			if present {
				v = src.String(i)
			}
			c.Text = append(c.Text, v)
		case KindNumber:
			var v float64
			if present && src.Kind == KindNumber {
				v = src.Num[i]
			} else if present {
				parsed, err := strconv.ParseFloat(src.String(i), 64)
				if err != nil {
					c.Valid[len(c.Valid)-1] = false
				}
				v = parsed
			}
			c.Num = append(c.Num, v)
		case KindDate:
			var v time.Time
			if present && src.Kind == KindDate {
				v = src.Date[i]
			} else if present {
				c.Valid[len(c.Valid)-1] = false
			}
			c.Date = append(c.Date, v)
		}
	}
}

func (c *Column) retain(keep []bool) {
	j := 0
	for i, ok := range keep {
		if !ok {
			continue
		}
		c.Valid[j] = c.Valid[i]
		switch c.Kind {
		case KindText:
			c.Text[j] = c.Text[i]
		case KindNumber:
			c.Num[j] = c.Num[i]
		case KindDate:
			c.Date[j] = c.Date[i]
		}
		j++
	}
	c.Valid = c.Valid[:j]
	switch c.Kind {
	case KindText:
		c.Text = c.Text[:j]
	case KindNumber:
		c.Num = c.Num[:j]
	case KindDate:
		c.Date = c.Date[:j]
	}
}

// Dataset is an ordered, column-major collection of accident records
// sharing one schema.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewDataset creates an empty dataset holding rows records
func NewDataset(rows int) *Dataset {
	return &Dataset{index: make(map[string]int), rows: rows}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return d.rows
}

// Names returns the column names in schema order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in schema order
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// Has reports whether every named column is part of the schema
func (d *Dataset) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := d.index[name]; !ok {
			return false
		}
	}
	return true
}

// Column returns the named column
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// AddColumn appends a column, or replaces the existing one with the same name
func (d *Dataset) AddColumn(c *Column) error {
	if c.Len() != d.rows {
		return fmt.Errorf("column %s has %d cells, dataset has %d rows", c.Name, c.Len(), d.rows)
	}
	if i, ok := d.index[c.Name]; ok {
		d.columns[i] = c
		return nil
	}
	d.index[c.Name] = len(d.columns)
	d.columns = append(d.columns, c)
	return nil
}

// Retain keeps the rows whose keep flag is true and returns how many were dropped
func (d *Dataset) Retain(keep []bool) (int, error) {
	if len(keep) != d.rows {
		return 0, fmt.Errorf("retain mask has %d entries, dataset has %d rows", len(keep), d.rows)
	}
	kept := 0
	for _, ok := range keep {
		if ok {
			kept++
		}
	}
	for _, c := range d.columns {
		c.retain(keep)
	}
	dropped := d.rows - kept
	d.rows = kept
	return dropped, nil
}

// Concat stacks datasets vertically over the union of their schemas.
// Columns keep first-seen order; a column missing from one part is absent
// for that part's rows. A column whose kinds disagree across parts becomes text.
func Concat(parts ...*Dataset) *Dataset {
	total := 0
	kinds := make(map[string]ColumnKind)
	var order []string
	for _, p := range parts {
		total += p.rows
		for _, c := range p.columns {
			kind, seen := kinds[c.Name]
			if !seen {
				order = append(order, c.Name)
				kinds[c.Name] = c.Kind
				continue
			}
			if kind != c.Kind {
				kinds[c.Name] = KindText
			}
		}
	}

	out := NewDataset(total)
	for _, name := range order {
		col := &Column{Name: name, Kind: kinds[name], Valid: make([]bool, 0, total)}
		for _, p := range parts {
			src, _ := p.Column(name)
			col.appendFrom(src, p.rows)
		}
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, col)
	}
	return out
}

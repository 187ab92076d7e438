package media

import (
	"encoding/json"
	"strconv"

	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
)

// ResultSet is the ordered outcome of one search. It is replaced wholesale
// by every search and is never cached across searches.
type ResultSet struct {
	items   []*Item
	columns []string
}

// NewResultSet snapshots items. Extra column names select payload fields
// that the table projection shows after the standard columns.
func NewResultSet(items []*Item, extra ...string) ResultSet {
	return ResultSet{
		items:   lo.Map(items, func(it *Item, _ int) *Item { return it.Clone() }),
		columns: extra,
	}
}

// Len is the number of results.
func (r ResultSet) Len() int {
	return len(r.items)
}

// Empty reports whether the search found nothing.
func (r ResultSet) Empty() bool {
	return len(r.items) == 0
}

// At returns a copy of the item at position i.
func (r ResultSet) At(i int) (*Item, bool) {
	if i < 0 || i >= len(r.items) {
		return nil, false
	}
	return r.items[i].Clone(), true
}

// Items returns copies of every item in order.
func (r ResultSet) Items() []*Item {
	return lo.Map(r.items, func(it *Item, _ int) *Item { return it.Clone() })
}

// MarshalJSON encodes the results as a list.
func (r ResultSet) MarshalJSON() ([]byte, error) {
	if r.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.items)
}

// Table is the display projection of a ResultSet.
type Table struct {
	Columns []string
	Rows    [][]string
}

// CellWidth bounds every cell of a projected table.
const CellWidth = 60

// Table projects the results into rows of index, type, title and any extra columns.
func (r ResultSet) Table() Table {
	t := Table{Columns: append([]string{"#", "Type", "Title"}, r.columns...)}

	for i, it := range r.items {
		row := []string{strconv.Itoa(i), it.Kind.String(), cell(it.Label())}
		for _, c := range r.columns {
			v, _ := it.Field(c)
			row = append(row, cell(v))
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

func cell(s string) string {
	return truncate.StringWithTail(s, CellWidth, "…")
}

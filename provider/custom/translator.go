package custom

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/streamscout/streamscout/media"
	lua "github.com/yuin/gopher-lua"
)

// Fields of a result table with a dedicated place in media.Item.
const (
	fieldName = "name"
	fieldURL  = "url"
	fieldType = "type"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString || val.Type() == lua.LTNumber {
		return val.String()
	}
	return ""
}

func getStringList(table *lua.LTable, key string) []string {
	val, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}

	var list []string
	val.ForEach(func(_, v lua.LValue) {
		if v.Type() == lua.LTString {
			list = append(list, v.String())
		}
	})
	return list
}

// itemFromTable converts a result table into an item. Fields other than
// name, url and type are kept in the payload.
func itemFromTable(table *lua.LTable) (*media.Item, error) {
	item := &media.Item{
		Name:    getString(table, fieldName),
		URL:     getString(table, fieldURL),
		Kind:    media.ParseKind(getString(table, fieldType)),
		Payload: make(map[string]any),
	}

	if item.Name == "" {
		return nil, errors.New("result must have a name")
	}

	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString {
			return
		}

		switch k.String() {
		case fieldName, fieldURL, fieldType:
			return
		}

		item.Payload[k.String()] = fromLValue(v)
	})

	return item, nil
}

// itemToTable is the inverse of itemFromTable.
func itemToTable(L *lua.LState, item *media.Item) *lua.LTable {
	table := L.NewTable()
	for k, v := range item.Payload {
		table.RawSetString(k, toLValue(L, v))
	}

	table.RawSetString(fieldName, lua.LString(item.Name))
	table.RawSetString(fieldURL, lua.LString(item.URL))
	table.RawSetString(fieldType, lua.LString(item.Kind.String()))
	return table
}

// itemsFromTable converts the list a search returns. Malformed entries are
// skipped; the first problem is returned only when nothing was usable.
func itemsFromTable(table *lua.LTable) ([]*media.Item, error) {
	var (
		items []*media.Item
		errs  []error
	)

	for i := 1; i <= table.Len(); i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)
		if !ok {
			errs = append(errs, fmt.Errorf("result %d is not a table", i))
			continue
		}

		item, err := itemFromTable(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("result %d: %w", i, err))
			continue
		}

		items = append(items, item)
	}

	if len(items) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return items, nil
}

// toLValue converts plain Go values into Lua values.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch value := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return value
	case string:
		return lua.LString(value)
	case bool:
		return lua.LBool(value)
	case int:
		return lua.LNumber(value)
	case int64:
		return lua.LNumber(value)
	case float64:
		return lua.LNumber(value)
	case []string:
		t := L.NewTable()
		for _, s := range value {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, e := range value {
			t.Append(toLValue(L, e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		keys := lo.Keys(value)
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, toLValue(L, value[k]))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(value))
	}
}

// fromLValue converts Lua values into plain Go values. Tables with a
// sequence part become slices, other tables become maps.
func fromLValue(v lua.LValue) any {
	switch value := v.(type) {
	case lua.LString:
		return string(value)
	case lua.LNumber:
		f := float64(value)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LBool:
		return bool(value)
	case *lua.LTable:
		if n := value.Len(); n > 0 {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, fromLValue(value.RawGetInt(i)))
			}
			return list
		}

		m := make(map[string]any)
		value.ForEach(func(k, e lua.LValue) {
			m[k.String()] = fromLValue(e)
		})
		return m
	default:
		return nil
	}
}

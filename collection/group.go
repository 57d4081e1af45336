package collection

import (
	"fmt"
	"reflect"

	"github.com/ancientlore/chronicle/document"
)

// KeyFunc returns the group key for a document. Returning false leaves the
// document out of every group.
type KeyFunc func(d *document.Document) (string, bool)

// Group groups docs by the value of field. If the value is a slice, such as tags,
// the document joins one group per distinct element. Documents without the field
// are not placed in any group.
func Group(docs []*document.Document, field string) *document.Groups {
	g := document.NewGroups()
	for _, d := range docs {
		v, ok := d.Field(field)
		if !ok {
			continue
		}
		keys := fieldKeys(v)
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			g.Add(k, d)
		}
	}
	return g
}

// GroupBy groups docs by the key fn returns for each of them.
func GroupBy(docs []*document.Document, fn KeyFunc) *document.Groups {
	g := document.NewGroups()
	for _, d := range docs {
		if k, ok := fn(d); ok {
			g.Add(k, d)
		}
	}
	return g
}

// fieldKeys stringifies a field value into one key, or one key per element of a slice.
func fieldKeys(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []string:
		return x
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{fmt.Sprint(v)}
	}
	keys := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i).Interface()
		if e == nil {
			continue
		}
		keys = append(keys, fmt.Sprint(e))
	}
	return keys
}

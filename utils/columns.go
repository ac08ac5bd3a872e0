package utils

import (
	"reflect"
)

// ColumnList returns the list of `db` tags of T's fields, in declaration
// order. Keeps dbmodel structs and their SELECT column lists from drifting
// apart.
func ColumnList[T any]() []string {
	var model T
	typ := reflect.TypeOf(model)

	columns := make([]string, 0, typ.NumField())
	for i := range typ.NumField() {
		if tag, ok := typ.Field(i).Tag.Lookup("db"); ok && tag != "-" {
			columns = append(columns, tag)
		}
	}
	return columns
}

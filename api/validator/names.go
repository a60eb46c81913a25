package validator

import (
	"reflect"
	"strings"
)

// jsonName reports fields by their JSON name so errors match the payload
// the client sent.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Package httpjson plugs goccy/go-json into echo's request binding and
// response rendering.
package httpjson

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

type Serializer struct{}

func (Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize reports malformed JSON as a 400 naming the offending field, by
// its JSON key, or the offset.
func (Serializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("invalid value for %s: expected %v", jsonKey(i, ute.Field), ute.Type)).SetInternal(err)
	}
	if se, ok := err.(*json.SyntaxError); ok {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("malformed JSON at offset %d: %v", se.Offset, se.Error())).SetInternal(err)
	}
	return err
}

// jsonKey maps a Go field name of v's struct type to its json tag name.
// Names it cannot resolve are returned unchanged.
func jsonKey(v interface{}, field string) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || field == "" {
		return field
	}
	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field
	}
	return name
}

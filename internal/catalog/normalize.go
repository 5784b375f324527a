// internal/catalog/normalize.go
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Columns lists the fields requested from the backend table.
var Columns = []string{
	"id", "links", "titles", "img", "description",
	"password", "additional", "alternatives", "created_at",
}

// ErrMalformed is returned by ParseRows for bodies that are not a JSON array.
var ErrMalformed = errors.New("malformed catalog response")

// RawRow is a backend row before normalization. Every field may be absent
// or carry any JSON type.
type RawRow struct {
	ID           gjson.Result
	Links        gjson.Result
	Titles       gjson.Result
	Img          gjson.Result
	Description  gjson.Result
	Password     gjson.Result
	Additional   gjson.Result
	Alternatives gjson.Result
	CreatedAt    gjson.Result
}

// ParseRow reads a single JSON object into a RawRow.
func ParseRow(raw string) RawRow {
	return rowFrom(gjson.Parse(raw))
}

// ParseRows reads a response body holding a JSON array of rows.
func ParseRows(body []byte) ([]RawRow, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: expected an array, got %s", ErrMalformed, res.Type)
	}
	elems := res.Array()
	rows := make([]RawRow, 0, len(elems))
	for _, el := range elems {
		rows = append(rows, rowFrom(el))
	}
	return rows, nil
}

func rowFrom(r gjson.Result) RawRow {
	return RawRow{
		ID:           r.Get("id"),
		Links:        r.Get("links"),
		Titles:       r.Get("titles"),
		Img:          r.Get("img"),
		Description:  r.Get("description"),
		Password:     r.Get("password"),
		Additional:   r.Get("additional"),
		Alternatives: r.Get("alternatives"),
		CreatedAt:    r.Get("created_at"),
	}
}

// Normalize converts a raw row into a Project. Every field has a fallback.
func Normalize(row RawRow) Project {
	p := Project{
		Links:        list(row.Links),
		Titles:       list(row.Titles),
		Img:          text(row.Img),
		Description:  text(row.Description),
		Password:     text(row.Password),
		Additional:   text(row.Additional),
		Alternatives: Alternatives(row.Alternatives),
	}
	if row.CreatedAt.Type == gjson.String {
		if ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt.Str); err == nil {
			p.CreatedAt = ts
		}
	}
	p.ID = deriveID(row.ID, p.Img, p.Description)
	return p
}

// NormalizeAll maps rows through Normalize, keeping their order.
func NormalizeAll(rows []RawRow) []Project {
	out := make([]Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, Normalize(row))
	}
	return out
}

func deriveID(id gjson.Result, img, description string) string {
	if id.Exists() && id.Type != gjson.Null {
		if s := id.String(); s != "" {
			return s
		}
	}
	if img != "" {
		return img
	}
	if description != "" {
		return description
	}
	return FallbackID
}

// text returns the textual value of a scalar, or "" when it is falsy or
// not a scalar.
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		if r.Num == 0 {
			return ""
		}
		return r.Raw
	case gjson.True:
		return "true"
	}
	return ""
}

// list keeps array elements index-aligned; blanks are preserved.
func list(r gjson.Result) []string {
	if !r.IsArray() {
		return []string{}
	}
	elems := r.Array()
	out := make([]string, 0, len(elems))
	for _, el := range elems {
		out = append(out, el.String())
	}
	return out
}

// Alternatives coerces a list or a delimited string into a list of
// non-blank entries. Strings split on newlines, commas, semicolons and pipes.
func Alternatives(r gjson.Result) []string {
	out := []string{}
	switch {
	case r.IsArray():
		for _, el := range r.Array() {
			if s := el.String(); strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
	case r.Type == gjson.String:
		out = SplitAlternatives(r.Str)
	}
	return out
}

// SplitAlternatives splits a delimited string into trimmed non-blank parts.
func SplitAlternatives(s string) []string {
	out := []string{}
	for _, part := range strings.FieldsFunc(s, isAlternativeSep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isAlternativeSep(r rune) bool {
	switch r {
	case '\n', '\r', ',', ';', '|':
		return true
	}
	return false
}

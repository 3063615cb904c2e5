package feedback

import (
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"rpi-dashboard/pkg/utils"
)

// Item is one feedback record. Optional fields are nil when the backend
// omitted them or sent something of the wrong type.
type Item struct {
	ID        string
	Subject   string
	Message   string
	Rating    *float64
	Email     *string
	CreatedAt *time.Time
}

// Shape names which response layout Normalize recognised.
type Shape int

const (
	ShapeUnknown Shape = iota
	// {"data":{"feedback":[...]}}
	ShapeEnvelope
	// [...]
	ShapeBareList
)

func (s Shape) String() string {
	switch s {
	case ShapeEnvelope:
		return "envelope"
	case ShapeBareList:
		return "list"
	default:
		return "unknown"
	}
}

// Normalize turns a /api/feedback body into items. The nested list wins
// over a bare list; any other shape, including invalid JSON, yields an
// empty list. Elements are not validated beyond reading each field.
func Normalize(body []byte) []Item {
	items, _ := NormalizeShape(body)
	return items
}

func NormalizeShape(body []byte) ([]Item, Shape) {
	if !gjson.ValidBytes(body) {
		return []Item{}, ShapeUnknown
	}
	root := gjson.ParseBytes(body)

	var list gjson.Result
	shape := ShapeUnknown
	if nested := root.Get("data.feedback"); root.IsObject() && nested.IsArray() {
		list, shape = nested, ShapeEnvelope
	} else if root.IsArray() {
		list, shape = root, ShapeBareList
	} else {
		return []Item{}, ShapeUnknown
	}

	elems := list.Array()
	items := make([]Item, 0, len(elems))
	for i, elem := range elems {
		items = append(items, itemFrom(elem, i))
	}
	return items, shape
}

func itemFrom(v gjson.Result, index int) Item {
	it := Item{
		ID:      textOf(v.Get("_id")),
		Subject: textOf(v.Get("subject")),
		Message: textOf(v.Get("message")),
	}
	if it.ID == "" {
		it.ID = strconv.Itoa(index)
	}

	if r := v.Get("rating"); r.Type == gjson.Number {
		rating := r.Float()
		it.Rating = &rating
	} else if r.Type == gjson.String {
		if rating, err := strconv.ParseFloat(r.Str, 64); err == nil {
			it.Rating = &rating
		}
	}

	if e := v.Get("email"); e.Type == gjson.String && e.Str != "" {
		email := e.Str
		it.Email = &email
	}

	if ts, ok := utils.ParseTimestamp(v.Get("createdAt")); ok {
		it.CreatedAt = &ts
	}
	return it
}

// textOf reads strings and numbers as text; everything else is empty.
func textOf(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

package search

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Shape is the physical encoding of an aggregator response.
type Shape int

const (
	ShapeDocument Shape = iota
	ShapeStructured
)

func (s Shape) String() string {
	switch s {
	case ShapeDocument:
		return "document"
	case ShapeStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Mode selects the caller-visible output encoding.
type Mode string

const (
	// ModeStructured renders records as a JSON array.
	ModeStructured Mode = "json"
	// ModeDisplay renders records as inlined HTML fragments.
	ModeDisplay Mode = "html"
)

// ParseMode maps an output_format value to a render mode. Anything other
// than json renders for display.
func ParseMode(raw string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(raw))) == ModeStructured {
		return ModeStructured
	}
	return ModeDisplay
}

// Extras holds category-specific optional attributes in insertion order.
// Values are string, []string, bool or *Extras.
type Extras = orderedmap.OrderedMap[string, any]

// NewExtras returns an empty attribute map.
func NewExtras() *Extras {
	return orderedmap.New[string, any]()
}

// Record is the normalized, source-independent form of one search result.
type Record struct {
	Kind   Category
	Title  string
	URL    string
	Extras *Extras
}

func newRecord(kind Category, title, url string) *Record {
	return &Record{Kind: kind, Title: title, URL: url, Extras: NewExtras()}
}

// setString stores v under key unless it is empty.
func (r *Record) setString(key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		r.Extras.Set(key, v)
	}
}

// setList stores v under key unless it has no elements.
func (r *Record) setList(key string, v []string) {
	if len(v) > 0 {
		r.Extras.Set(key, v)
	}
}

// setMap stores v under key unless it has no entries.
func (r *Record) setMap(key string, v *Extras) {
	if v != nil && v.Len() > 0 {
		r.Extras.Set(key, v)
	}
}

// Text returns the string extra stored under key, or "".
func (r *Record) Text(key string) string {
	v, ok := r.Extras.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Request is one category-scoped search call.
type Request struct {
	Query      string
	Category   Category
	Language   string
	SafeSearch int
	TimeRange  string
	Mode       Mode
}

// Payload is a raw aggregator body together with the shape that was asked for.
type Payload struct {
	Body  []byte
	Shape Shape
}

// ResultSet is the Source Detector's view of a response: either empty or a
// sequence of result nodes of a single shape.
type ResultSet struct {
	Shape Shape
	Nodes []Node
}

// Empty reports whether the response carried no results.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Nodes) == 0
}

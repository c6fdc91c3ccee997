package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NoResultsMessage is the display-mode output for an empty result set.
const NoResultsMessage = "No results found. You can try:\n- using different keywords\n- simplifying the query\n- checking the spelling"

// Display attributes per category, in the order they appear on the summary
// line. Keys missing from a record are skipped.
var displayOrder = map[Category][]string{
	CategoryGeneral:     {"engines"},
	CategoryNews:        {"dateSource", "published", "engines"},
	CategoryImages:      {"source", "engine", "resolution"},
	CategoryVideos:      {"length", "author", "published"},
	CategoryMap:         {"details", "address", "longitude", "latitude", "engines"},
	CategoryMusic:       {"published", "engines"},
	CategoryIT:          {"attributes", "engines"},
	CategoryScience:     {"published", "authors", "journal", "doi", "engines"},
	CategoryFiles:       {"fileInfo", "engines"},
	CategorySocialMedia: {"hashtags", "engines"},
}

var displayLabels = map[string]string{
	"engines":    "Engines",
	"engine":     "Engine",
	"dateSource": "Date/Source",
	"published":  "Published",
	"source":     "Source",
	"resolution": "Resolution",
	"length":     "Length",
	"author":     "Author",
	"authors":    "Authors",
	"journal":    "Journal",
	"doi":        "DOI",
	"address":    "Address",
	"longitude":  "Longitude",
	"latitude":   "Latitude",
	"hashtags":   "Tags",
	"package":    "Package",
	"maintainer": "Maintainer",
	"version":    "Version",
	"size":       "Size",
	"seeds":      "Seeds",
	"leeches":    "Leeches",
	"has_magnet": "Magnet link",
}

// Render turns normalized records into the caller-visible text. All text is
// HTML-escaped here and nowhere else.
func Render(records []*Record, mode Mode) (string, error) {
	switch mode {
	case ModeStructured:
		return renderStructured(records)
	case ModeDisplay, "":
		return renderDisplay(records), nil
	default:
		return "", fmt.Errorf("unknown render mode %q", mode)
	}
}

func renderStructured(records []*Record) (string, error) {
	if len(records) == 0 {
		return "[]", nil
	}

	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			compact.WriteByte(',')
		}

		obj := NewExtras()
		obj.Set("title", rec.Title)
		obj.Set("url", rec.URL)
		for pair := rec.Extras.Oldest(); pair != nil; pair = pair.Next() {
			obj.Set(pair.Key, pair.Value)
		}
		obj.Set("type", rec.Kind.Tag())

		if err := writeEscaped(&compact, obj); err != nil {
			return "", err
		}
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

// writeEscaped writes v as JSON with every string entity-escaped once. The
// encoder's own HTML escaping stays off, so "&amp;" is written as is.
func writeEscaped(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case string:
		return writeString(buf, html.EscapeString(v))
	case []string:
		buf.WriteByte('[')
		for i, s := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, html.EscapeString(s)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case *Extras:
		buf.WriteByte('{')
		first := true
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeString(buf, html.EscapeString(pair.Key)); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeEscaped(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported extra value type %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}

func renderDisplay(records []*Record) string {
	if len(records) == 0 {
		return NoResultsMessage
	}

	fragments := make([]string, 0, len(records))
	for _, rec := range records {
		fragments = append(fragments, displayFragment(rec))
	}
	return strings.Join(fragments, "\n")
}

func displayFragment(rec *Record) string {
	title := html.EscapeString(rec.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "<div class='result result-%s'>", rec.Kind.Tag())
	fmt.Fprintf(&b, "<h4><a href='%s' target='_blank'>%s</a></h4>", html.EscapeString(rec.URL), title)
	if thumb := rec.Text("thumbnail"); thumb != "" {
		fmt.Fprintf(&b, "<img src='%s' alt='%s' />", html.EscapeString(thumb), title)
	}
	if desc := rec.Text("description"); desc != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(desc))
	}

	var meta []string
	for _, key := range displayOrder[rec.Kind] {
		if v, ok := rec.Extras.Get(key); ok {
			meta = append(meta, displayItems(key, v)...)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "<small>%s</small>", strings.Join(meta, " | "))
	}

	b.WriteString("</div>")
	return b.String()
}

// displayItems formats one extra as "Label: value" entries. Nested maps
// contribute one entry per key.
func displayItems(key string, v any) []string {
	label, ok := displayLabels[key]
	if !ok {
		label = key
	}
	label = html.EscapeString(label)

	switch v := v.(type) {
	case string:
		return []string{label + ": " + html.EscapeString(v)}
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			if key == "hashtags" {
				s = "#" + s
			}
			items[i] = html.EscapeString(s)
		}
		return []string{label + ": " + strings.Join(items, ", ")}
	case bool:
		if v {
			return []string{label}
		}
	case *Extras:
		if key == "address" {
			var parts []string
			for pair := v.Oldest(); pair != nil; pair = pair.Next() {
				if s, ok := pair.Value.(string); ok && s != "" {
					parts = append(parts, html.EscapeString(s))
				}
			}
			if len(parts) == 0 {
				return nil
			}
			return []string{label + ": " + strings.Join(parts, ", ")}
		}
		var items []string
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			items = append(items, displayItems(pair.Key, pair.Value)...)
		}
		return items
	}
	return nil
}

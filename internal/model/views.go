package model

import "strconv"

// ShapeEntry is one element of the ordered view.
type ShapeEntry struct {
	Shape      int     `json:"shape"`
	URL        *string `json:"url"`
	PreviewURL *string `json:"previewUrl"`
	Name       string  `json:"name"`
}

// KeyedEntry is the value type of the keyed view.
type KeyedEntry struct {
	URL        *string `json:"url"`
	PreviewURL *string `json:"previewUrl"`
	Name       string  `json:"name"`
}

// Views holds the derived read-only projections of one Catalog.
//
// Both maps contain every configured part, including parts with no shapes.
type Views struct {
	// Ordered maps each part to its records sorted by shape id ascending.
	Ordered map[string][]ShapeEntry `json:"ordered"`

	// Keyed maps each part to its records keyed by the decimal shape id.
	Keyed map[string]map[string]KeyedEntry `json:"keyed"`
}

// Project derives the ordered and keyed views from c.
//
// Project never mutates c. Calling it twice on the same catalog yields
// equal views, so a rebuilt catalog only needs a fresh Project call.
func Project(c *Catalog) Views {
	v := Views{
		Ordered: make(map[string][]ShapeEntry),
		Keyed:   make(map[string]map[string]KeyedEntry),
	}
	for _, part := range c.Parts() {
		records := c.Records(part)
		ordered := make([]ShapeEntry, 0, len(records))
		keyed := make(map[string]KeyedEntry, len(records))
		for _, rec := range records {
			entry := projectRecord(rec)
			ordered = append(ordered, entry)
			keyed[strconv.Itoa(rec.ShapeID)] = KeyedEntry{
				URL:        entry.URL,
				PreviewURL: entry.PreviewURL,
				Name:       entry.Name,
			}
		}
		v.Ordered[part] = ordered
		v.Keyed[part] = keyed
	}
	return v
}

func projectRecord(rec AssetRecord) ShapeEntry {
	preview := rec.PreviewURL
	if preview == "" {
		preview = rec.PrimaryURL
	}
	name := rec.DisplayName
	if name == "" {
		name = strconv.Itoa(rec.ShapeID)
	}
	return ShapeEntry{
		Shape:      rec.ShapeID,
		URL:        nullable(rec.PrimaryURL),
		PreviewURL: nullable(preview),
		Name:       name,
	}
}

// nullable maps an absent location to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

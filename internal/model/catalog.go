package model

import (
	"slices"
	"strings"
)

// DefaultParts is the part order used when none is configured.
var DefaultParts = []string{"face", "skin", "hair", "clothes", "glass"}

// DefaultExtension is the image extension accepted when none is configured.
const DefaultExtension = ".webp"

// PartConfig holds the part order and file-type settings for classification.
//
// Example configuration:
//
//	cfg := &PartConfig{
//	    Parts:     []string{"face", "skin", "hair", "clothes", "glass"},
//	    Extension: ".webp",
//	}
type PartConfig struct {
	// Parts is the ordered list of part names. Earlier parts win when a
	// path matches more than one, and are drawn first (further back).
	Parts []string

	// Extension is the accepted image extension, including the dot.
	// Matching is case-insensitive.
	Extension string
}

// NormalizedExtension returns the extension lower-cased with a leading dot.
func (c *PartConfig) NormalizedExtension() string {
	ext := strings.ToLower(strings.TrimSpace(c.Extension))
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// AssetRecord is one shape within one part.
//
// A record always has at least one of PrimaryURL or PreviewURL set. An
// empty string means the location is absent.
type AssetRecord struct {
	// Part is the part name this shape belongs to.
	Part string

	// ShapeID is the numeric identifier taken from the filename. Zero and
	// negative values are valid.
	ShapeID int

	// PrimaryURL is the location of the main image.
	PrimaryURL string

	// PreviewURL is the location of the thumbnail. It falls back to
	// PrimaryURL when no distinct preview file exists.
	PreviewURL string

	// DisplayName is the filename the record was last built from.
	DisplayName string
}

// HasImage returns true if the record has any usable location.
func (r AssetRecord) HasImage() bool {
	return r.PrimaryURL != "" || r.PreviewURL != ""
}

// Catalog is the resolved collection of asset records, grouped by part and
// shape id. A Catalog is immutable after NewCatalog returns.
type Catalog struct {
	parts  []string
	shapes map[string]map[int]AssetRecord
}

// NewCatalog creates a Catalog for the given part order.
//
// Records whose part is not in parts are dropped, as are records without
// any usable location. When two records share a (part, shapeId) the later
// one wins; callers that need merging do it before calling NewCatalog.
func NewCatalog(parts []string, records []AssetRecord) *Catalog {
	c := &Catalog{
		parts:  slices.Clone(parts),
		shapes: make(map[string]map[int]AssetRecord, len(parts)),
	}
	for _, p := range c.parts {
		c.shapes[p] = make(map[int]AssetRecord)
	}
	for _, rec := range records {
		byShape, ok := c.shapes[rec.Part]
		if !ok || !rec.HasImage() {
			continue
		}
		byShape[rec.ShapeID] = rec
	}
	return c
}

// Parts returns the configured part order.
func (c *Catalog) Parts() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.parts)
}

// Lookup returns the record for (part, shapeID).
func (c *Catalog) Lookup(part string, shapeID int) (AssetRecord, bool) {
	if c == nil {
		return AssetRecord{}, false
	}
	rec, ok := c.shapes[part][shapeID]
	return rec, ok
}

// Has reports whether (part, shapeID) exists.
func (c *Catalog) Has(part string, shapeID int) bool {
	_, ok := c.Lookup(part, shapeID)
	return ok
}

// HasPart reports whether part is one of the configured parts.
func (c *Catalog) HasPart(part string) bool {
	if c == nil {
		return false
	}
	_, ok := c.shapes[part]
	return ok
}

// Len returns the number of shapes for part.
func (c *Catalog) Len(part string) int {
	if c == nil {
		return 0
	}
	return len(c.shapes[part])
}

// ShapeIDs returns the shape ids of part in ascending order.
func (c *Catalog) ShapeIDs(part string) []int {
	if c == nil {
		return nil
	}
	ids := make([]int, 0, len(c.shapes[part]))
	for id := range c.shapes[part] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Records returns the records of part sorted by shape id.
func (c *Catalog) Records(part string) []AssetRecord {
	ids := c.ShapeIDs(part)
	out := make([]AssetRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.shapes[part][id])
	}
	return out
}

// Counts returns the number of shapes per part.
func (c *Catalog) Counts() map[string]int {
	out := make(map[string]int, len(c.Parts()))
	for _, p := range c.Parts() {
		out[p] = c.Len(p)
	}
	return out
}

// Total returns the number of records across all parts.
func (c *Catalog) Total() int {
	total := 0
	for _, n := range c.Counts() {
		total += n
	}
	return total
}

// AvailableParts returns the parts with at least one shape, in part order.
func (c *Catalog) AvailableParts() []string {
	var out []string
	for _, p := range c.Parts() {
		if c.Len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

package manifest

import (
	"strings"

	"github.com/handiism/avatar-customizer/internal/model"
)

// Report summarizes one Build call. It is informational only.
type Report struct {
	// Listed is the number of paths given to Build.
	Listed int

	// Accepted is the number of paths that classified successfully,
	// including duplicates of an existing shape.
	Accepted int

	// Shapes is the number of distinct shapes per part.
	Shapes map[string]int

	// Skipped counts rejected paths per reason.
	Skipped map[Skip]int
}

// Builder produces a Catalog from a flattened file listing.
//
// Example:
//
//	builder := NewBuilder(partConfig, "https://cdn.example.com/repo/")
//	catalog, report := builder.Build([]string{
//	    "assets/face/1.webp",
//	    "assets/face/preview-1.webp",
//	    "assets/hair/-3.webp",
//	})
//	// catalog face:1 has both URLs, hair:-3 has PreviewURL == PrimaryURL
//	// report.Accepted == 3
type Builder struct {
	parts      []string
	classifier *Classifier
	baseURL    string
}

// NewBuilder creates a Builder that resolves accepted paths against baseURL.
func NewBuilder(cfg *model.PartConfig, baseURL string) *Builder {
	return &Builder{
		parts:      append([]string(nil), cfg.Parts...),
		classifier: NewClassifier(cfg),
		baseURL:    baseURL,
	}
}

// draft accumulates the files seen for one (part, shapeId).
type draft struct {
	primary string
	preview string
	name    string
}

type shapeKey struct {
	part    string
	shapeID int
}

// Build classifies every path and returns a fresh Catalog.
//
// Primary and preview files of one shape merge into a single record. A
// given field is set by the first file that provides it; later duplicates
// never overwrite or clear it. A record without a distinct preview ends
// with PreviewURL equal to PrimaryURL. Build never fails: paths that do not
// classify are counted in Report.Skipped and otherwise ignored.
func (b *Builder) Build(paths []string) (*model.Catalog, Report) {
	report := Report{
		Listed:  len(paths),
		Shapes:  make(map[string]int, len(b.parts)),
		Skipped: make(map[Skip]int),
	}

	drafts := make(map[shapeKey]*draft)
	var order []shapeKey

	for _, raw := range paths {
		c, skip := b.classifier.Classify(raw)
		if skip != SkipNone {
			report.Skipped[skip]++
			continue
		}

		key := shapeKey{part: c.Part, shapeID: c.ShapeID}
		d, ok := drafts[key]
		if !ok {
			d = &draft{}
			drafts[key] = d
			order = append(order, key)
		}

		url := ResolveURL(b.baseURL, c.Path)
		if c.IsPreview {
			if d.preview == "" {
				d.preview = url
			}
		} else if d.primary == "" {
			d.primary = url
		}
		d.name = c.FileName

		report.Accepted++
	}

	records := make([]model.AssetRecord, 0, len(order))
	for _, key := range order {
		d := drafts[key]
		preview := d.preview
		if preview == "" {
			preview = d.primary
		}
		records = append(records, model.AssetRecord{
			Part:        key.part,
			ShapeID:     key.shapeID,
			PrimaryURL:  d.primary,
			PreviewURL:  preview,
			DisplayName: d.name,
		})
	}

	catalog := model.NewCatalog(b.parts, records)
	for _, p := range b.parts {
		report.Shapes[p] = catalog.Len(p)
	}
	return catalog, report
}

// ResolveURL joins a base location with a listed file path.
//
// Leading slashes of path are dropped and a separator is inserted when base
// does not end with one. The mapping is pure: the same inputs always give
// the same location.
func ResolveURL(base, path string) string {
	path = strings.TrimLeft(path, "/")
	if base == "" {
		return path
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}

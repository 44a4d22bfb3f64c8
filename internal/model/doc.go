// Package model defines the core data structures used throughout
// the avatar-customizer application.
//
// # AssetRecord
//
// AssetRecord is one numbered shape within one part, with the resolved
// locations of its main image and its thumbnail:
//
//	rec, ok := catalog.Lookup("hair", -3)
//	fmt.Println(rec.PrimaryURL, rec.PreviewURL)
//
// # Catalog
//
// Catalog maps part → shapeId → AssetRecord. It is built once per manifest
// load and never mutated afterwards:
//
//	catalog := model.NewCatalog([]string{"face", "hair"}, records)
//	for _, id := range catalog.ShapeIDs("face") {
//	    fmt.Println(id)
//	}
//
// # Views
//
// Project derives the read-only ordered and keyed views used by consumers
// that want a list or a string-keyed object instead of the catalog itself:
//
//	views := model.Project(catalog)
//	data, _ := json.Marshal(views.Ordered)
//
// # Part Configuration
//
// PartConfig holds the ordered part names and the expected image extension.
// The same order is used for classification (first match wins) and for
// back-to-front drawing.
package model

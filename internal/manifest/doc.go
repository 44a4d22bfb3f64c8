// Package manifest turns a remote file listing into a model.Catalog.
//
// The package handles three concerns:
//
//  1. Classifying raw file paths into (part, shapeId, preview) triples
//  2. Building a catalog from a whole listing, merging primary and preview
//     files of the same shape
//  3. Fetching the listing from a GitHub tree, a jsDelivr flat listing or a
//     local directory
//
// # Classification
//
//	classifier := manifest.NewClassifier(partConfig)
//	c, skip := classifier.Classify("assets/hair/preview-3.webp")
//	if skip == manifest.SkipNone {
//	    fmt.Println(c.Part, c.ShapeID, c.IsPreview) // hair 3 true
//	}
//
// # Building
//
//	builder := manifest.NewBuilder(partConfig, source.BaseURL())
//	catalog, report := builder.Build(paths)
//	fmt.Printf("accepted %d files\n", report.Accepted)
//
// A path that does not classify is skipped without error. The only failure
// for a refresh is ErrManifestUnavailable from the Source.
package manifest

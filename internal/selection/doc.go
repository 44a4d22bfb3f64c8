// Package selection holds the chosen shape per part.
//
// A Store is seeded with defaults once a catalog is available and is then
// changed only by explicit Set calls. Every Set is validated against the
// catalog it is given, so a Store never holds a shape the catalog lacks.
//
// Default policies:
//   - PreferNegativeOne: shape -1 when present, else the smallest id
//   - Minimum: always the smallest id
package selection

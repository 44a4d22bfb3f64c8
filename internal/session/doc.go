// Package session owns one customization session.
//
// A Session ties the manifest source, the catalog builder, the selection
// store and the compositor together behind an explicit lifecycle:
//
//	sess := session.New(opts)
//	defer sess.Close()
//
//	if err := sess.Refresh(ctx); err != nil { ... } // list, build, swap, seed
//	_ = sess.Select("hair", -3)                      // validate, store, recomposite
//	img := sess.Latest()
//
// The built catalog and its views are published as one immutable Snapshot
// through an atomic pointer. Readers see either the previous or the new
// snapshot, never a mix, and a failed refresh leaves the previous one in
// place.
//
// Composites requested while one is running coalesce into a single
// follow-up run handled by a background worker. Progress is reported
// through an optional Event callback; host hooks are invoked with panics
// recovered.
package session

package session

// Level indicates the severity of an Event.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Kind identifies what happened.
type Kind int

const (
	// KindCatalogReady follows a successful rebuild. Parts holds the
	// configured part order.
	KindCatalogReady Kind = iota
	// KindManifestUnavailable follows a failed listing fetch.
	KindManifestUnavailable
	// KindSelectionChanged follows a successful Select.
	KindSelectionChanged
	// KindCompositeDone follows every finished composite.
	KindCompositeDone
	// KindLayerSkipped reports a layer whose image failed to load.
	KindLayerSkipped
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCatalogReady:
		return "catalog-ready"
	case KindManifestUnavailable:
		return "manifest-unavailable"
	case KindSelectionChanged:
		return "selection-changed"
	case KindCompositeDone:
		return "composite-done"
	case KindLayerSkipped:
		return "layer-skipped"
	default:
		return "unknown"
	}
}

// Event is a progress notification for a host UI.
type Event struct {
	Kind    Kind
	Level   Level
	Message string

	// Parts is set on KindCatalogReady.
	Parts []string
}

package dto

// JSONFlat is the response of the jsDelivr data API flat listing.
type JSONFlat struct {
	Default string         `json:"default"`
	Files   []JSONFlatFile `json:"files"`
}

// JSONFlatFile is one file of a flat listing. Names start with "/".
type JSONFlatFile struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
	Time string `json:"time"`
	Size int64  `json:"size"`
}

// Paths returns the file names in listing order.
func (f *JSONFlat) Paths() []string {
	paths := make([]string, 0, len(f.Files))
	for _, file := range f.Files {
		paths = append(paths, file.Name)
	}
	return paths
}

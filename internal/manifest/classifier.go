package manifest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/handiism/avatar-customizer/internal/model"
)

// Skip is the reason a path was left out of the catalog.
//
// A skip is not an error; it is only counted for reporting.
type Skip int

const (
	// SkipNone means the path was accepted.
	SkipNone Skip = iota

	// SkipExtension means the path does not end with the image extension.
	SkipExtension

	// SkipNoPart means no configured part directory appears in the path.
	SkipNoPart

	// SkipNoShapeID means the filename contains no integer.
	SkipNoShapeID

	// SkipShapeIDRange means the first integer does not fit in an int.
	SkipShapeIDRange
)

// String returns a short name for the skip reason.
func (s Skip) String() string {
	switch s {
	case SkipNone:
		return "accepted"
	case SkipExtension:
		return "extension"
	case SkipNoPart:
		return "no-part"
	case SkipNoShapeID:
		return "no-shape-id"
	case SkipShapeIDRange:
		return "shape-id-range"
	default:
		return "unknown"
	}
}

// shapeIDPattern matches the first optionally signed integer in a filename.
var shapeIDPattern = regexp.MustCompile(`-?\d+`)

// Classification is the result of accepting one path.
type Classification struct {
	// Path is the input with leading slashes stripped. It is the path that
	// gets resolved against the base location.
	Path string

	// Part is the configured part name matched in the path.
	Part string

	// ShapeID is the first integer found in the filename.
	ShapeID int

	// FileName is the final path segment.
	FileName string

	// IsPreview is true when the filename contains "preview" in any case.
	IsPreview bool
}

// Classifier maps raw file paths to parts and shape ids.
//
// Classifier is a pure function of its configuration and is safe for
// concurrent use.
//
// Example:
//
//	classifier := NewClassifier(&model.PartConfig{
//	    Parts:     []string{"face", "hair"},
//	    Extension: ".webp",
//	})
//
//	c, skip := classifier.Classify("/assets/face/face_12_preview.webp")
//	// skip == SkipNone, c.Part == "face", c.ShapeID == 12, c.IsPreview == true
type Classifier struct {
	parts     []string
	needles   []string
	extension string
}

// NewClassifier creates a Classifier for the given part configuration.
func NewClassifier(cfg *model.PartConfig) *Classifier {
	c := &Classifier{extension: cfg.NormalizedExtension()}
	for _, p := range cfg.Parts {
		c.parts = append(c.parts, p)
		c.needles = append(c.needles, "/"+strings.ToLower(p)+"/")
	}
	return c
}

// Classify accepts or rejects one path.
//
// The rules are applied in order:
//  1. The extension must match (case-insensitive)
//  2. Leading slashes are stripped
//  3. The first configured part x with "/x/" in the lower-cased path wins
//  4. The first integer in the filename is the shape id; one that
//     overflows int is rejected with SkipShapeIDRange
//  5. The filename containing "preview" marks a thumbnail
func (c *Classifier) Classify(rawPath string) (Classification, Skip) {
	if !strings.HasSuffix(strings.ToLower(rawPath), c.extension) {
		return Classification{}, SkipExtension
	}

	path := strings.TrimLeft(rawPath, "/")
	lower := strings.ToLower(path)

	part := ""
	for i, needle := range c.needles {
		if strings.Contains(lower, needle) {
			part = c.parts[i]
			break
		}
	}
	if part == "" {
		return Classification{}, SkipNoPart
	}

	fileName := path[strings.LastIndex(path, "/")+1:]
	shapeID, skip := extractShapeID(fileName)
	if skip != SkipNone {
		return Classification{}, skip
	}

	return Classification{
		Path:      path,
		Part:      part,
		ShapeID:   shapeID,
		FileName:  fileName,
		IsPreview: strings.Contains(strings.ToLower(fileName), "preview"),
	}, SkipNone
}

// extractShapeID returns the first integer in fileName.
//
// A leading '-' counts as a sign only when it is not glued to a letter or
// digit, so "preview-1" yields 1 while "-1" and "hair_-1" yield -1.
func extractShapeID(fileName string) (int, Skip) {
	loc := shapeIDPattern.FindStringIndex(fileName)
	if loc == nil {
		return 0, SkipNoShapeID
	}
	start := loc[0]
	if fileName[start] == '-' && start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(fileName[:start])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			start++
		}
	}
	id, err := strconv.Atoi(fileName[start:loc[1]])
	if err != nil {
		return 0, SkipShapeIDRange
	}
	return id, SkipNone
}

// Package tui provides a Bubble Tea terminal user interface for
// avatar-customizer.
//
// The screen shows one tab per part that has shapes, a grid of shape ids
// for the active part with the current pick highlighted, and a half-block
// colour preview of the latest composite.
//
// Keys:
//   - tab / shift+tab: switch part
//   - arrows: move the grid cursor
//   - enter: select the shape under the cursor
//   - r: refresh the manifest
//   - s: save the composite as PNG, named after the picks
//     ("avatar face_1 hair_-3.png") in the output path's directory
//   - q: quit
package tui

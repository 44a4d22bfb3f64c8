// Package http provides the HTTP client used to fetch file listings and
// asset images.
//
// The Client in this package handles:
//   - User-Agent headers (required by the GitHub API)
//   - Timeout handling
//   - Non-200 responses surfaced as *StatusError
//   - JSON decoding of listing responses
//
// # Basic Usage
//
//	client := http.NewClient("", 0) // defaults
//
//	// Fetch a listing
//	var flat dto.JSONFlat
//	err := client.GetJSON(ctx, "https://data.jsdelivr.com/v1/package/gh/user/repo@main/flat", &flat)
//
//	// Fetch an image
//	data, err := client.Get(ctx, "https://cdn.jsdelivr.net/gh/user/repo@main/assets/face/1.webp")
package http

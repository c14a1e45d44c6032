//go:build tools

package tools

// Tool dependencies are tracked here with blank imports where needed.
// mockery is used as an installed binary (not via go run), so no import
// is needed. Run: mockery (from the module root) to generate mocks once
// an interface in this repo warrants one.

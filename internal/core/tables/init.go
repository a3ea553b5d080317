// Package tables registers the base and search table definitions with the
// core registry. Import this package to ensure both tables are registered.
package tables

// Table keys.
const (
	BaseKey   = "base"
	SearchKey = "search"
)

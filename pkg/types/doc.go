// Package types defines the destination, schema, and property value types
// shared across kiroku, together with the standard errors every component
// reports through. See docs/ARCHITECTURE.md § Data Model.
package types

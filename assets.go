// Package authsite provides embedded assets for production builds.
package authsite

import "embed"

// Embedded assets for production builds.
// In dev mode (IsDev=true), pages are loaded from disk for hot reloading.
// In production mode (IsDev=false), pages are served from this embedded filesystem.

//go:embed all:web/static
var StaticFS embed.FS

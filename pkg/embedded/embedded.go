// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the analysis page served directly via HTTP:
// - web/index.html       - page shell
// - web/assets/app.js    - slider wiring and live plot updates
// - web/assets/style.css - layout and styling
//
//go:embed web
var Files embed.FS

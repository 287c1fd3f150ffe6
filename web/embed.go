// Package web ships the dashboard's HTML templates inside the binary.
package web

import "embed"

//go:embed templates/*.tmpl
var Templates embed.FS

// Package web holds the page templates and static assets, embedded into the
// binary.
package web

import "embed"

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css/js).
//
//go:embed static/*
var StaticFS embed.FS

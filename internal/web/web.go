// Package web holds the server-rendered public and admin pages.
package web

import (
	"embed"
	"html/template"
	"math"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page with the shared helper funcs
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Funcs are the helpers available to page templates
func Funcs() template.FuncMap {
	return template.FuncMap{
		"imageSrc": ImageSrc,
		"stars":    Stars,
		"round":    Round,
		"date":     FormatDate,
		"seq":      Seq,
		"selected": Selected,
	}
}

// ImageSrc marks stored image references safe for an img src attribute.
// Inline data URIs are allowed only for image types; anything else is dropped.
func ImageSrc(ref string) template.URL {
	switch {
	case strings.HasPrefix(ref, "data:image/"):
		return template.URL(ref) //nolint:gosec // restricted to image data URIs
	case strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "http://"):
		return template.URL(ref) //nolint:gosec // plain http(s) URL
	default:
		return ""
	}
}

// Stars renders a score as filled and empty stars
func Stars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	return strings.Repeat("★", score) + strings.Repeat("☆", 5-score)
}

func Round(f float64) int {
	return int(math.Round(f))
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

// Seq returns 1..n, for rating radio buttons
func Seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func Selected(current, option string) bool {
	return current == option
}

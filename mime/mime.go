// Package mime validates file extensions and MIME types against a small
// database of web formats and converts between the two.
package mime

import (
	"maps"
	"regexp"
	"slices"

	"github.com/zoobzio/coercez"
)

// Database maps each supported MIME type to its extensions. The first
// extension is the canonical one.
var Database = map[string][]string{
	"text/html":                {"html"},
	"text/plain":               {"txt"},
	"text/css":                 {"css"},
	"application/javascript":   {"js"},
	"application/pdf":          {"pdf"},
	"font/woff":                {"woff"},
	"font/woff2":               {"woff2"},
	"video/mp4":                {"mp4"},
	"image/avif":               {"avif", "heif"}, // libvips reports avif as heif
	"image/webp":               {"webp"},
	"image/png":                {"png"},
	"image/jpeg":               {"jpg", "jpeg"},
	"image/svg+xml":            {"svg"},
	"image/vnd.microsoft.icon": {"ico"},
}

var extensions = func() map[string]string {
	out := make(map[string]string)
	for mimeType, exts := range Database {
		for _, ext := range exts {
			out[ext] = mimeType
		}
	}
	return out
}()

var (
	leadingDot = regexp.MustCompile(`^\.`)
	parameters = regexp.MustCompile(`;.*$`)
)

func check(name coercez.Name, strip *regexp.Regexp, known []string, expected string) coercez.Coercer[any, string] {
	within := coercez.Within(known...)
	return coercez.Apply(name, func(value any) (string, error) {
		s, err := coercez.String.Coerce(value)
		if err != nil {
			return "", coercez.NewError(value, expected)
		}
		cleaned := strip.ReplaceAllString(s, "")
		if !within.Test(cleaned) {
			return "", coercez.NewError(value, expected)
		}
		return cleaned, nil
	})
}

var (
	// Ext validates a file extension, with or without a leading dot, and
	// returns it without the dot.
	Ext = check("ext", leadingDot, slices.Sorted(maps.Keys(extensions)), "a valid extension")

	// Mime validates a MIME type, ignoring parameters such as charset, and
	// returns the bare type.
	Mime = check("mime", parameters, slices.Sorted(maps.Keys(Database)), "a valid mime type")
)

// IsExt reports whether value is a known extension.
func IsExt(value any) bool {
	return Ext.Test(value)
}

// IsMime reports whether value is a known MIME type.
func IsMime(value any) bool {
	return Mime.Test(value)
}

// ExtToMime converts a file extension to its MIME type.
//
//	mime.ExtToMime(".avif") // "image/avif"
func ExtToMime(value any) (string, error) {
	ext, err := Ext.Coerce(value)
	if err != nil {
		return "", err
	}
	return extensions[ext], nil
}

// MimeToExt converts a MIME type to its canonical file extension.
//
//	mime.MimeToExt("text/html; charset=utf-8") // "html"
func MimeToExt(value any) (string, error) {
	mimeType, err := Mime.Coerce(value)
	if err != nil {
		return "", err
	}
	return Database[mimeType][0], nil
}

package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/constants"
)

// AllowedExt reports whether a document or chat pipeline handles ext.
func AllowedExt(ext string) bool {
	return constants.MapExtToFormat(ext) != ""
}

// AllowedExtensions returns the union of document and chat extensions.
func AllowedExtensions() map[string]struct{} {
	out := make(map[string]struct{}, len(constants.DocumentExtensions)+len(constants.ChatExtensions))
	for e := range constants.DocumentExtensions {
		out[e] = struct{}{}
	}
	for e := range constants.ChatExtensions {
		out[e] = struct{}{}
	}
	return out
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

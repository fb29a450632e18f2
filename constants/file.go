package constants

import "strings"

// Format is the input family a file belongs to.
type Format string

const (
	DOCUMENT Format = "DOCUMENT"
	CHAT     Format = "CHAT"
)

// DocumentExtensions are accepted by the line-scan pipeline.
var DocumentExtensions = map[string]struct{}{
	"docx": {},
	"xlsx": {},
}

// ChatExtensions are accepted by the span mapper pipeline.
var ChatExtensions = map[string]struct{}{
	"txt":  {},
	"chat": {},
	"log":  {},
}

// DefaultMaxUploadBytes caps a single uploaded file.
const DefaultMaxUploadBytes = 10 << 20

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the pipeline family for an extension, or "" if unsupported.
func MapExtToFormat(ext string) Format {
	ext = NormalizeExt(ext)
	if _, ok := DocumentExtensions[ext]; ok {
		return DOCUMENT
	}
	if _, ok := ChatExtensions[ext]; ok {
		return CHAT
	}
	return ""
}

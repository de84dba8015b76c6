package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

const DefaultContentType = "application/octet-stream"

// DetectContentType infers a content type from the key's extension.
func DetectContentType(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if isTextLike(ext) {
		return "text/plain; charset=utf-8"
	} else if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return DefaultContentType
}

// benchmark sources and job logs that the mime table may not know
func isTextLike(ext string) bool {
	switch ext {
	case ".yaml", ".yml", ".toml", ".md", ".py", ".sh", ".out", ".err", ".log":
		return true
	}
	return false
}

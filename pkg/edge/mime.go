package edge

import (
	"mime"
	"path/filepath"
)

// defaultMimeType is used when neither the upstream store nor filename
// extension sniffing can determine a type.
const defaultMimeType = "application/octet-stream"

// resolveMimeType prefers the upstream-reported MIME type, falling back to
// extension-based sniffing off fileName, per the "filename-derived MIME
// fallback" feature added in this project's module expansion: chat-based
// object stores frequently report a generic type for forwarded documents.
func resolveMimeType(reported, fileName string) string {
	if reported != "" && reported != defaultMimeType {
		return reported
	}
	if ext := filepath.Ext(fileName); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	if reported != "" {
		return reported
	}
	return defaultMimeType
}

// firstNonEmpty returns the first non-empty string in vals, or "".
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

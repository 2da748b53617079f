package source

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrNotDataURI is returned when a ref does not use the data: scheme.
var ErrNotDataURI = errors.New("source: not a data URI")

// IsDataURI reports whether ref is a data: URI.
func IsDataURI(ref string) bool {
	return len(ref) > 5 && strings.EqualFold(ref[:5], "data:")
}

// EncodeDataURI returns a base64 data URI for data.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI decodes a data URI into its media type and payload.
// Both base64 and percent-encoded payloads are accepted.
func ParseDataURI(ref string) (string, []byte, error) {
	if !IsDataURI(ref) {
		return "", nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(ref[5:], ",")
	if !ok {
		return "", nil, fmt.Errorf("source: data URI missing payload")
	}

	isBase64 := false
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		isBase64 = true
		meta = meta[:len(meta)-len(";base64")]
	}
	mime := meta
	if mime == "" {
		mime = "text/plain;charset=US-ASCII"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("source: data URI payload: %w", err)
		}
		return mime, data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("source: data URI payload: %w", err)
	}
	return mime, []byte(s), nil
}

// extension → media type for formats net/http cannot sniff.
var extMIME = map[string]string{
	".tga":  "image/x-tga",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// DetectMIME returns the media type of data. A known extension of name
// wins, since sniffing misreads headerless formats: a plain TGA header
// sniffs as image/x-icon.
func DetectMIME(name string, data []byte) string {
	if t, ok := extMIME[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return http.DetectContentType(data)
}

package backend

import (
	"mime"
	"strings"
)

// Pairs of content types that are allowed to stand in for each other, in
// either direction. Cloud-optimized TIFFs are commonly served as plain TIFF.
var allowablePairs = [][2]string{
	{"image/tiff", "image/tiff; application=geotiff; profile=cloud-optimized"},
	{"image/tiff", "image/tiff; application=geotiff"},
}

// Generic content types that servers fall back to and that never fail
// validation.
var ignoredContentTypes = []string{
	"binary/octet-stream",
	"application/octet-stream",
}

// CheckContentType validates the actual content type reported by a server
// against the expected media type. This is more complicated than a string
// comparison because some equivalent pairs are allowed.
func CheckContentType(actual, expected string) error {
	actual = normalizeContentType(actual)
	if actual == "" || actual == expected {
		return nil
	}
	for _, ignored := range ignoredContentTypes {
		if actual == ignored {
			return nil
		}
	}
	for _, pair := range allowablePairs {
		if (actual == pair[0] && expected == pair[1]) || (actual == pair[1] && expected == pair[0]) {
			return nil
		}
	}
	return &ContentTypeError{Actual: actual, Expected: expected}
}

// normalizeContentType strips parameters like charset from a Content-Type
// header value. Values that fail to parse are passed through trimmed.
func normalizeContentType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.TrimSpace(strings.ToLower(value))
	}
	return mediaType
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package vidapi

import (
	"mime"
	"regexp"
)

// DefaultFilename is used when the backend does not name the payload.
const DefaultFilename = "video"

var quotedFilename = regexp.MustCompile(`filename="(.+)"`)

// FilenameFromDisposition derives the payload name from a Content-Disposition
// header. RFC 6266 parsing (including filename*) wins; a loose quoted match
// covers headers the strict parser rejects.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return DefaultFilename
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	if m := quotedFilename.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return DefaultFilename
}

package uploads

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// AllowedExtensions lists the lower-case extensions accepted for upload.
var AllowedExtensions = map[string]bool{
	// 3D models
	"stl":  true,
	"3mf":  true,
	"obj":  true,
	"glb":  true,
	"gltf": true,
	"fbx":  true,
	// Images
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

var reservedDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Extension returns the lower-cased text after the last dot, or "" if the
// name has no dot.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// IsAllowed reports whether filename carries an extension from AllowedExtensions.
func IsAllowed(filename string) bool {
	return AllowedExtensions[Extension(filename)]
}

// SanitizeFilename reduces a client supplied name to a flat, ASCII-only
// basename made of [A-Za-z0-9_.-]. Path separators are turned into
// underscores so "../../etc/model.stl" becomes "etc_model.stl". The result
// may be empty.
func SanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(filename) {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	name := b.String()

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem, _, _ := strings.Cut(name, ".")
		if reservedDeviceNames[strings.ToUpper(stem)] {
			name = "_" + name
		}
	}
	return name
}

package uploads

import (
	"mime"

	"github.com/h2non/filetype"
)

// sniffLen is the number of header bytes filetype needs to recognise every
// type it knows about.
const sniffLen = 261

// modelContentTypes covers the 3D formats that neither filetype nor the
// system mime table know about.
var modelContentTypes = map[string]string{
	"stl":  "model/stl",
	"3mf":  "model/3mf",
	"obj":  "model/obj",
	"glb":  "model/gltf-binary",
	"gltf": "model/gltf+json",
	"fbx":  "application/octet-stream",
}

// imageContentTypes maps image extensions to the MIME type their magic
// number must match when strict content checking is on.
var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// DetectContentType picks the Content-Type for a stored file from its
// leading bytes, falling back to its extension.
func DetectContentType(name string, head []byte) string {
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	ext := Extension(name)
	if ct, ok := modelContentTypes[ext]; ok {
		return ct
	}
	if ext != "" {
		if ct := mime.TypeByExtension("." + ext); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

// contentMatchesExtension reports whether head is consistent with the image
// extension of name. Non-image extensions are not checked.
func contentMatchesExtension(name string, head []byte) bool {
	want, ok := imageContentTypes[Extension(name)]
	if !ok {
		return true
	}
	return filetype.IsMIME(head, want)
}

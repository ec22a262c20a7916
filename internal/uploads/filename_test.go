package uploads

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	assert.Equal(t, "stl", Extension("model.stl"))
	assert.Equal(t, "jpeg", Extension("Photo.JPEG"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "", Extension("README"))
	assert.Equal(t, "", Extension("trailing."))
}

func TestIsAllowed(t *testing.T) {
	for _, name := range []string{"a.stl", "a.3MF", "a.obj", "a.glb", "a.gltf", "a.fbx", "a.png", "a.jpg", "a.JPEG", "a.gif", "a.webp"} {
		assert.True(t, IsAllowed(name), name)
	}
	for _, name := range []string{"a.exe", "a.svg", "a.stl.exe", "stl", "a.", ""} {
		assert.False(t, IsAllowed(name), name)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "model.stl", want: "model.stl"},
		{in: "../../etc/model.stl", want: "etc_model.stl"},
		{in: `..\..\evil.jpg`, want: "evil.jpg"},
		{in: "/etc/passwd", want: "etc_passwd"},
		{in: "My Model (v2).STL", want: "My_Model_v2.STL"},
		{in: `C:\Users\me\photo.png`, want: "C_Users_me_photo.png"},
		{in: "café.png", want: "cafe.png"},
		{in: "  spaced   out .gif", want: "spaced_out_.gif"},
		{in: "...", want: ""},
		{in: "CON.png", want: "_CON.png"},
		{in: "nul", want: "_nul"},
		{in: "контакт", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_NeverEscapes(t *testing.T) {
	inputs := []string{
		"..", "../", "../../..", "./a.png", "a/../../b.png", `a\..\..\b.png`,
		"....//....//x.obj", "%2e%2e%2fx.obj", "\x00evil.png", ".hidden.png",
	}
	for _, in := range inputs {
		out := SanitizeFilename(in)
		assert.False(t, strings.ContainsAny(out, `/\`), "%q -> %q", in, out)
		assert.NotEqual(t, "..", out)
		assert.False(t, strings.HasPrefix(out, "."), "%q -> %q", in, out)
		if out != "" {
			assert.True(t, filepath.IsLocal(out), "%q -> %q", in, out)
		}
	}
}

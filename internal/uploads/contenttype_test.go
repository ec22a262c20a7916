package uploads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00")
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	tests := []struct {
		name string
		head []byte
		want string
	}{
		{name: "photo.png", head: pngHeader, want: "image/png"},
		{name: "anim.gif", head: gif, want: "image/gif"},
		{name: "mislabelled.stl", head: jpeg, want: "image/jpeg"},
		{name: "model.stl", head: []byte("solid cube"), want: "model/stl"},
		{name: "model.OBJ", head: []byte("v 0 0 0"), want: "model/obj"},
		{name: "scene.glb", head: []byte("glTF\x02\x00\x00\x00"), want: "model/gltf-binary"},
		{name: "rig.fbx", head: []byte("Kaydara FBX Binary"), want: "application/octet-stream"},
		{name: "empty.png", head: nil, want: "image/png"},
		{name: "unknown", head: []byte("???"), want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.name, tt.head))
		})
	}
}

func TestContentMatchesExtension(t *testing.T) {
	assert.True(t, contentMatchesExtension("photo.png", pngHeader))
	assert.False(t, contentMatchesExtension("photo.jpg", pngHeader))
	assert.False(t, contentMatchesExtension("photo.gif", []byte("plain text")))
	assert.True(t, contentMatchesExtension("model.stl", []byte("anything")))
}

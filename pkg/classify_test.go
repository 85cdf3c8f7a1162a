package pkg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/media-sorter/pkg"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		path string
		want pkg.MediaType
	}{
		{"/in/IMG_0001.jpg", pkg.MediaImage},
		{"/in/IMG_0001.JPG", pkg.MediaImage},
		{"/in/shot.jpeg", pkg.MediaImage},
		{"/in/shot.heic", pkg.MediaImage},
		{"/in/shot.CR2", pkg.MediaImage},
		{"/in/clip.mp4", pkg.MediaVideo},
		{"/in/clip.MOV", pkg.MediaVideo},
		{"/in/clip.mkv", pkg.MediaVideo},
		{"/in/clip.m2ts", pkg.MediaVideo},
		{"/in/notes.txt", pkg.MediaOther},
		{"/in/archive.zip", pkg.MediaOther},
		{"/in/README", pkg.MediaOther},
		{"/in/.hidden", pkg.MediaOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, pkg.ClassifyFile(tt.path))
		})
	}
}

func TestMediaTypeIsMedia(t *testing.T) {
	assert.True(t, pkg.MediaImage.IsMedia())
	assert.True(t, pkg.MediaVideo.IsMedia())
	assert.False(t, pkg.MediaOther.IsMedia())
}

func TestMediaTypeString(t *testing.T) {
	assert.Equal(t, "image", pkg.MediaImage.String())
	assert.Equal(t, "video", pkg.MediaVideo.String())
	assert.Equal(t, "other", pkg.MediaOther.String())
}

func TestHasContainerDate(t *testing.T) {
	assert.True(t, pkg.HasContainerDate("/in/clip.mp4"))
	assert.True(t, pkg.HasContainerDate("/in/clip.MOV"))
	assert.True(t, pkg.HasContainerDate("/in/clip.m4v"))
	assert.False(t, pkg.HasContainerDate("/in/clip.mkv"))
	assert.False(t, pkg.HasContainerDate("/in/photo.jpg"))
}

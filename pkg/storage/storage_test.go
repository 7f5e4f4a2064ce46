package storage

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestDecodeImageData(t *testing.T) {
	raw := []byte("test image data")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name      string
		imageData string
		want      []byte
		wantErr   bool
	}{
		{name: "plain base64", imageData: encoded, want: raw},
		{name: "data URI", imageData: "data:image/png;base64," + encoded, want: raw},
		{name: "invalid base64", imageData: "not-valid-base64!!!", wantErr: true},
		{name: "data URI without comma", imageData: "data:invalid", wantErr: true},
		{name: "data URI not base64", imageData: "data:image/png," + encoded, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeImageData(tt.imageData)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectImage(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		contentType, ext, err := DetectImage(pngHeader)
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, ".png", ext)
	})

	t.Run("jpeg", func(t *testing.T) {
		contentType, ext, err := DetectImage([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", contentType)
		assert.Equal(t, ".jpg", ext)
	})

	t.Run("text is rejected", func(t *testing.T) {
		_, _, err := DetectImage([]byte("hello, world"))
		assert.True(t, errors.Is(err, ErrUnsupportedImage))
	})

	t.Run("empty is rejected", func(t *testing.T) {
		_, _, err := DetectImage(nil)
		assert.True(t, errors.Is(err, ErrUnsupportedImage))
	})

	t.Run("too large", func(t *testing.T) {
		data := make([]byte, MaxImageSize+1)
		copy(data, pngHeader)
		_, _, err := DetectImage(data)
		assert.True(t, errors.Is(err, ErrImageTooLarge))
	})

	t.Run("exactly max size", func(t *testing.T) {
		data := make([]byte, MaxImageSize)
		copy(data, pngHeader)
		_, _, err := DetectImage(data)
		assert.NoError(t, err)
	})
}

func TestPublicURLPrefix(t *testing.T) {
	assert.Equal(t, "https://storage.example.com/courses-bucket",
		publicURLPrefix("https://storage.example.com/", "courses-bucket", ""))
	assert.Equal(t, "https://cdn.example.com",
		publicURLPrefix("https://storage.example.com", "courses-bucket", "https://cdn.example.com/"))
}

func TestObjectURLAndKeyForURL(t *testing.T) {
	client := &StorageClient{publicURL: "https://storage.example.com/bucket"}

	url := client.ObjectURL("courses/abc.png")
	assert.Equal(t, "https://storage.example.com/bucket/courses/abc.png", url)

	key, ok := client.KeyForURL(url)
	assert.True(t, ok)
	assert.Equal(t, "courses/abc.png", key)

	_, ok = client.KeyForURL("https://elsewhere.example.com/img.png")
	assert.False(t, ok)

	_, ok = client.KeyForURL("https://storage.example.com/bucket/")
	assert.False(t, ok)
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURI("https://example.com/a.png"))
	assert.False(t, IsDataURI(""))
}

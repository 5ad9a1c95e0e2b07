package poicontent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedExtension(t *testing.T) {
	tests := []struct {
		ext     string
		allowed bool
	}{
		{".png", true},
		{".jpeg", true},
		{".JPG", true},
		{".pdf", true},
		{".txt", true},
		{".tar", true},
		{".exe", false},
		{".sh", false},
		{".php", false},
		{"", false},
		{"png", false}, // no leading dot
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.allowed, IsAllowedExtension(tt.ext))
		})
	}
}

func TestIsImageExtension(t *testing.T) {
	assert.True(t, IsImageExtension(".png"))
	assert.True(t, IsImageExtension(".TIFF"))
	assert.False(t, IsImageExtension(".pdf"))
	assert.False(t, IsImageExtension(".txt"))
}

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		name string
		base string
		ext  string
	}{
		{"photo.png", "photo", ".png"},
		{"Scan.JPEG", "Scan", ".jpeg"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"noextension", "noextension", ""},
		{".hidden", "", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ext := splitExtension(tt.name)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "plain text", escapeHTML("plain text"))
	assert.Equal(t, " script alert(1) /script ", escapeHTML("<script>alert(1)</script>"))
	assert.Equal(t, "a  b", escapeHTML("a<>b"))
}

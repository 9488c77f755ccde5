package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashURL(t *testing.T) {
	a := HashURL("user-1|https://example.com")
	b := HashURL("user-1|https://example.com")
	c := HashURL("user-2|https://example.com")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestDomain(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://example.com/page", "example.com"},
		{"https://sub.example.com:8443/", "sub.example.com"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.rawURL), tt.rawURL)
	}
}

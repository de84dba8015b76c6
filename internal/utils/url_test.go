package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"http://141.5.110.112:7800", false},
		{"https://bench.example.org", false},
		{"https://bench.example.org/api/", false},
		{"", true},
		{"ftp://bench.example.org", true},
		{"http://", true},
		{"://bad", true},
		{"bench.example.org", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "http://x:7800", NormalizeURL("http://x:7800/"))
	assert.Equal(t, "http://x:7800", NormalizeURL("http://x:7800"))
}

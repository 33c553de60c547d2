package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDir_Name(t *testing.T) {
	tests := []struct {
		name     string
		dir      Dir
		expected string
		found    bool
	}{
		{"base name", Dir{Path: "/home/dev/asset-transfer"}, "asset-transfer", true},
		{"trailing slash", Dir{Path: "/home/dev/My Project/"}, "My Project", true},
		{"display name wins", Dir{Path: "/home/dev/x", DisplayName: "Fancy cc"}, "Fancy cc", true},
		{"root", Dir{Path: "/"}, "", false},
		{"empty", Dir{}, "", false},
		{"blank display name", Dir{Path: "/src/cc", DisplayName: "  "}, "cc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, found := tt.dir.Name()
			assert.Equal(t, tt.expected, name)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestStatic_Name(t *testing.T) {
	name, found := Static("cc").Name()
	assert.True(t, found)
	assert.Equal(t, "cc", name)

	_, found = Static("").Name()
	assert.False(t, found)
}

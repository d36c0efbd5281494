package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-s", "topsecret", "-a", ":5000"},
			allowedFlags: []string{"-s", "--secret"},
			want:         []string{"-s", "topsecret"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--secret=topsecret", "-a", ":5000"},
			allowedFlags: []string{"-s", "--secret"},
			want:         []string{"--secret=topsecret"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--secret=first", "-s", "second", "-x", "1"},
			allowedFlags: []string{"-s", "--secret"},
			want:         []string{"--secret=first", "-s", "second"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-s", "--secret"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-s"},
			allowedFlags: []string{"-s", "--secret"},
			want:         []string{"-s"},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-s", "-notvalue"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, tc.allowedFlags)
			assert.Equal(t, tc.want, got)
		})
	}
}

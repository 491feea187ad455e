package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-s", "secret", "-x", "1"},
			allowed: []string{"-s"},
			want:    []string{"-s", "secret"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", ":8000"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "migrate"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-t", "15"},
			allowed: []string{"-c", "-t"},
			want:    []string{"-c", "-t", "15"},
		},
		{
			name:    "repeated flag keeps order",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	assert.Equal(t, "/etc/vt.json", ConfigFilePath([]string{"-c", "/etc/vt.json"}))
	assert.Equal(t, "/etc/vt.json", ConfigFilePath([]string{"-config", "/etc/vt.json", "-a", ":1"}))
	assert.Equal(t, "/etc/vt.json", ConfigFilePath([]string{"--config=/etc/vt.json"}))
	assert.Equal(t, "b.json", ConfigFilePath([]string{"-c", "a.json", "-config", "b.json"}))
	assert.Empty(t, ConfigFilePath([]string{"-a", ":8000"}))
}

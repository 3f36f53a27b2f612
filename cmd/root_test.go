package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "no arguments", args: nil, want: []string{"check"}},
		{name: "check flags only", args: []string{"--plain", "--skip-folder-ops"}, want: []string{"check", "--plain", "--skip-folder-ops"}},
		{name: "flag with value", args: []string{"--dir", "/srv/app"}, want: []string{"check", "--dir", "/srv/app"}},
		{name: "explicit subcommand", args: []string{"check", "--plain"}, want: []string{"check", "--plain"}},
		{name: "version subcommand", args: []string{"version"}, want: []string{"version"}},
		{name: "help flag", args: []string{"--help"}, want: []string{"--help"}},
		{name: "version flag", args: []string{"--version"}, want: []string{"--version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultArgs(tt.args))
		})
	}
}

func TestRootCmd_DefaultsToCheck(t *testing.T) {
	cmd, flags, err := rootCmd.Find(defaultArgs([]string{"--plain"}))
	assert.NoError(t, err)
	assert.Equal(t, "check", cmd.Name())
	assert.Equal(t, []string{"--plain"}, flags)
}

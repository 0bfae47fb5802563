package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/coinfocus/internal/cli"
	"github.com/rshade/coinfocus/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "coinfocus", root.Use)

		names := make([]string, 0, len(root.Commands()))
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}
		assert.Subset(t, names, []string{"detail", "browse", "serve", "config"})
	})
}

func TestExtractExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: 0},
		{name: "generic error returns 1", err: errors.New("boom"), want: 1},
		{
			name: "ExitError code is used",
			err:  &cli.ExitError{Code: cli.ExitCodeUnavailable, Reason: "1 asset unavailable"},
			want: cli.ExitCodeUnavailable,
		},
		{
			name: "wrapped ExitError",
			err:  fmt.Errorf("outer: %w", &cli.ExitError{Code: 42, Reason: "custom"}),
			want: 42,
		},
		{
			name: "joined ExitError",
			err:  errors.Join(errors.New("outer"), &cli.ExitError{Code: 3, Reason: "joined"}),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractExitCode(tt.err))
		})
	}
}

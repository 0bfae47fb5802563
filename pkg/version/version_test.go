package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	t.Run("returns embedded version", func(t *testing.T) {
		assert.Equal(t, "dev", GetVersion())
	})

	t.Run("empty version falls back to dev", func(t *testing.T) {
		saved := version
		t.Cleanup(func() { version = saved })

		version = ""
		assert.Equal(t, "dev", GetVersion())
	})
}

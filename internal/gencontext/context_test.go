package gencontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModeRoundTripsString(t *testing.T) {
	for _, s := range []string{"object", "proxy"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	_, err := ParseMode("variant")
	require.Error(t, err)
}

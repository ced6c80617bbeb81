package fonts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsRegistersEveryFace(t *testing.T) {
	require.NoError(t, LoadDefaults())
	for _, name := range []FontName{Regular, Title, Small, Mono} {
		require.NotNil(t, name.Get(), name)
	}
	require.Panics(t, func() { FontName("missing").Get() })
}

func TestLoadFontWithSizeRejectsBadData(t *testing.T) {
	require.ErrorContains(t, LoadFontWithSize("broken", []byte("not a font"), 12), "parse font broken")
}

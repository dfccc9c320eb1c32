package shadow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	require.Equal(t, "005-2569", NormalizeKey("005/2569"))
	require.Equal(t, "a-b-c-d", NormalizeKey(`a\b:c.d`))
	require.Equal(t, "005-2569", NormalizeKey("  005/2569 "))
	require.Equal(t, "plain", NormalizeKey("plain"))
}

package apiv1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthStatus(t *testing.T) {
	require.Equal(t, "healthy", healthStatus(0, 100))
	require.Equal(t, "healthy", healthStatus(99, 100))
	require.Equal(t, "degraded", healthStatus(100, 100))
	require.Equal(t, "degraded", healthStatus(150, 100))
	// нулевой размер очереди означает, что лимит не настроен
	require.Equal(t, "healthy", healthStatus(10, 0))
}

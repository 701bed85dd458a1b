package mysql

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLLimit(t *testing.T) {
	require.Equal(t, int32(20), sqlLimit(20))
	require.Equal(t, int32(math.MaxInt32), sqlLimit(0))
	require.Equal(t, int32(math.MaxInt32), sqlLimit(-5))
}

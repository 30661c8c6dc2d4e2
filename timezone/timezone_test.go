package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	require.Equal(t, DefaultName, Load("").String())
	require.Equal(t, "America/Los_Angeles", Load("America/Los_Angeles").String())
	require.Equal(t, time.UTC, Load("Not/AZone"))
}

package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	loc, err := Load("")
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)

	loc, err = Load("UTC")
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())

	_, err = Load("Not/AZone")
	require.Error(t, err)
}

func TestClock(t *testing.T) {
	loc, err := Load("UTC")
	if err != nil {
		t.Fatal(err)
	}
	now := Clock(loc)()
	require.Equal(t, loc, now.Location())
	require.WithinDuration(t, time.Now(), now, time.Minute)
}

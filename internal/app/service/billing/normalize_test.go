package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTimestamp_Nil(t *testing.T) {
	require.Nil(t, NormalizeTimestamp(nil))
}

func TestNormalizeTimestamp_EpochToISO(t *testing.T) {
	cases := []struct {
		name  string
		epoch int64
		want  string
	}{
		{"zero", 0, "1970-01-01T00:00:00.000Z"},
		{"typical renewal", 1767225600, "2026-01-01T00:00:00.000Z"},
		{"mid second", 1700000000, "2023-11-14T22:13:20.000Z"},
		{"negative epoch", -1, "1969-12-31T23:59:59.000Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTimestamp(&tc.epoch)
			require.NotNil(t, got)
			require.Equal(t, tc.want, *got)
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	active := "  Active "
	empty := "   "
	got := NormalizeStatus(&active)
	require.NotNil(t, got)
	require.Equal(t, "active", *got)

	require.Nil(t, NormalizeStatus(nil))
	require.Nil(t, NormalizeStatus(&empty))
}

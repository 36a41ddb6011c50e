package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"already ISO", "2026-07-10", "2026-07-10", false},
		{"ISO with whitespace", "  2026-07-10 ", "2026-07-10", false},
		{"ISO shape, invalid month", "2025-13-01", "", true},
		{"ISO shape, invalid day", "2025-02-30", "", true},
		{"unpadded reformats", "2025-1-5", "2025-01-05", false},
		{"textual date reformats", "March 5, 2026", "2026-03-05", false},
		{"garbage", "not a date", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.value)
			if tt.wantErr {
				var vErr ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, "date", vErr.Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"HH:MM", "09:30", false},
		{"HH:MM:SS", "09:30:00", false},
		{"midnight", "00:00", false},
		{"end of day", "23:59:59", false},
		{"whitespace trimmed", " 18:00 ", false},
		{"no leading zero", "9:30", true},
		{"hour out of range", "24:00", true},
		{"minute out of range", "12:60", true},
		{"second out of range", "12:30:60", true},
		{"garbage", "noon", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTime(tt.value)
			if tt.wantErr {
				var vErr ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, "time", vErr.Field)
				return
			}
			require.NoError(t, err)
			require.NotContains(t, got, " ")
		})
	}
}

func TestNormalizeInputAtomicity(t *testing.T) {
	input := validEventInput()
	input.Date = "2025-13-01"

	_, err := normalizeInput(input)
	require.Error(t, err)
}

func TestNormalizeInputTrimsFields(t *testing.T) {
	input := validEventInput()
	input.Title = "  GopherCon 2026  "
	input.Mode = " Hybrid "
	input.Tags = []string{" go ", "", "cloud"}

	normalized, err := normalizeInput(input)
	require.NoError(t, err)
	require.Equal(t, "GopherCon 2026", normalized.Title)
	require.Equal(t, "hybrid", normalized.Mode)
	require.Equal(t, []string{"go", "cloud"}, normalized.Tags)
}

package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	first, err := NewULID()
	require.NoError(t, err)
	require.Len(t, first, 26)
	require.NoError(t, ValidateULID(first))

	second, err := NewULID()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestIsULID(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"valid uppercase", "01HQZX3Y4K6F7G8H9J0K1M2N3P", true},
		{"valid lowercase", "01hqzx3y4k6f7g8h9j0k1m2n3p", true},
		{"valid with whitespace", "  01HQZX3Y4K6F7G8H9J0K1M2N3P  ", true},
		{"slug", "gophercon-2026", false},
		{"too short", "01HQZX3Y4K", false},
		{"too long", "01HQZX3Y4K6F7G8H9J0K1M2N3P0", false},
		{"excluded letters", "01HQZX3Y4K6F7G8H9J0K1M2NIL", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsULID(tt.value))
		})
	}
}

func TestValidateULID(t *testing.T) {
	require.NoError(t, ValidateULID("01HQZX3Y4K6F7G8H9J0K1M2N3P"))
	require.ErrorIs(t, ValidateULID("not-a-ulid"), ErrInvalidULID)
}

package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositive(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "150.00", want: "150"},
		{name: "padded", in: "  75.50 ", want: "75.5"},
		{name: "integer", in: "1000", want: "1000"},
		{name: "zero", in: "0", wantErr: true},
		{name: "negative", in: "-12.30", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "12,34", wantErr: true},
		{name: "not a number", in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositive(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormat(t *testing.T) {
	d, err := ParsePositive("75.5")
	require.NoError(t, err)
	assert.Equal(t, "75.50", Format(d))
}

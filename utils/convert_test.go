// Package utils
package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWei(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"1", "1000000000000000000", nil},
		{"1.5", "1500000000000000000", nil},
		{"0.0001", "100000000000000", nil},
		{".25", "250000000000000000", nil},
		{"2.", "2000000000000000000", nil},
		{"0.000000000000000001", "1", nil},
		{"1.100000000000000000000", "1100000000000000000", nil},
		{"-0.5", "-500000000000000000", nil},
		{"0.0000000000000000001", "", ErrTooManyDecimals},
		{"", "", ErrInvalidAmount},
		{".", "", ErrInvalidAmount},
		{"1e18", "", ErrInvalidAmount},
		{"abc", "", ErrInvalidAmount},
		{"1.2.3", "", ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToWei(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFromWei(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, "1.0", FromWei(oneEther))
	assert.Equal(t, "0.0", FromWei(big.NewInt(0)))
	assert.Equal(t, "0.0", FromWei(nil))
	assert.Equal(t, "0.000000000000000001", FromWei(big.NewInt(1)))
	assert.Equal(t, "-0.5", FromWei(big.NewInt(-500000000000000000)))

	large, _ := new(big.Int).SetString("123456789012345678901234", 10)
	assert.Equal(t, "123456.789012345678901234", FromWei(large))
}

func TestWeiRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.0001", "1.0", "42.125", "0.000000000000000001", "1000000.5"} {
		wei, err := ToWei(amount)
		require.NoError(t, err)
		assert.Equal(t, amount, FromWei(wei))
	}
}

func TestIsPositiveAmount(t *testing.T) {
	assert.True(t, IsPositiveAmount("0.01"))
	assert.False(t, IsPositiveAmount("0"))
	assert.False(t, IsPositiveAmount("0.000"))
	assert.False(t, IsPositiveAmount("-1"))
	assert.False(t, IsPositiveAmount("ten"))
}

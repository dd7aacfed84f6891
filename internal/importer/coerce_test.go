package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1965", 1965, false},
		{" 1965 ", 1965, false},
		{"-300", -300, false},
		{"1_965", 1965, false},
		{"_1965", 0, true},
		{"1965_", 0, true},
		{"1__965", 0, true},
		{"19.65", 0, true},
		{"0x7AD", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInteger(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"7.5", 7.5, false},
		{"7,5", 7.5, false},
		{"10", 10, false},
		{"1_0.2_5", 10.25, false},
		{"0x1p3", 0, true},
		{"0X8", 0, true},
		{"+0x1", 0, true},
		{"7._5", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimal(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package litparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"$FF", 0xFF},
		{"0x1234", 0x1234},
		{"010", 8},
		{"42", 42},
		{"0", 0},
	}
	for _, tt := range tests {
		v, err := ParseValue(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, v, tt.in)
	}
}

func TestParseValueInvalid(t *testing.T) {
	_, err := ParseValue("not-a-number")
	assert.Error(t, err)
}

func TestParseConst10(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"#42", 42},
		{"#$2A", 42},
		{"#1100", 1100 % 1024},
	}
	for _, tt := range tests {
		v, err := ParseConst10(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, v, tt.in)
	}
}

func TestParseConst10RequiresHash(t *testing.T) {
	_, err := ParseConst10("42")
	assert.Error(t, err)
}

func TestParseString(t *testing.T) {
	got := ParseString(`"AB"`)
	assert.Equal(t, []uint16{'A', 'B'}, got)
}

func TestParseStringEscapes(t *testing.T) {
	got := ParseString(`"A\n"`)
	assert.Equal(t, []uint16{'A', '\n'}, got)
}

func TestParseByteStringPacksPairs(t *testing.T) {
	got := ParseByteString(`"AB"`)
	want := uint16('A')<<8 | uint16('B')
	assert.Equal(t, []uint16{want}, got)
}

func TestParseByteStringOddLength(t *testing.T) {
	got := ParseByteString(`"A"`)
	assert.Equal(t, []uint16{uint16('A')}, got)
}

package cnpj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in     string
		digits string
		valid  bool
	}{
		{"12.345.678/0001-90", "12345678000190", true},
		{"12345678000190", "12345678000190", true},
		{" 12 345 678 0001 90 ", "12345678000190", true},
		{"1234567800019", "1234567800019", false},
		{"11.111.111/1111-11", "11111111111111", false},
		{"", "", false},
	}

	for _, c := range cases {
		digits, ok := Normalize(c.in)
		assert.Equal(t, c.digits, digits, c.in)
		assert.Equal(t, c.valid, ok, c.in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-90", Format("12345678000190"))
	assert.Equal(t, "123", Format("123"))
}

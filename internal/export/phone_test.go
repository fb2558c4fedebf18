package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneValidator(t *testing.T) {
	v, err := NewPhoneValidator("84", `^84\d{8,10}$`)
	require.NoError(t, err)

	tests := []struct {
		raw   string
		phone string
		valid bool
	}{
		{"0912345678", "84912345678", true},
		{"84912345678", "84912345678", true},
		{"+84 91 234 5678", "84912345678", true},
		{"912345678", "84912345678", true},
		{"12345", "8412345", false},
		{"", "84", false},
		{"0912345678901", "84912345678901", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			phone, ok := v.Check(tt.raw)
			assert.Equal(t, tt.phone, phone)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestPhoneValidator_BadPattern(t *testing.T) {
	_, err := NewPhoneValidator("84", `(`)
	assert.Error(t, err)
}

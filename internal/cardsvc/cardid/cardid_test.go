package cardid

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "1234567890ABCDEF", "1234567890ABCDEF"},
		{"lower case", "1234567890abcdef", "1234567890ABCDEF"},
		{"grouped with spaces", "1234 5678 90AB cdef", "1234567890ABCDEF"},
		{"tabs and newlines", "\t1234\n5678\r\n90ab cdef ", "1234567890ABCDEF"},
		{"unicode spaces", "1234 5678 90AB　CDEF", "1234567890ABCDEF"},
		{"empty", "", ""},
		{"non hex kept", "not-a-card", "NOT-A-CARD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"canonical", "1234567890ABCDEF", true},
		{"all zero", "0000000000000000", true},
		{"lower case rejected", "1234567890abcdef", false},
		{"too short", "1234567890ABCDE", false},
		{"too long", "1234567890ABCDEF0", false},
		{"non hex letter", "1234567890ABCDEG", false},
		{"embedded space", "12345678 90ABCDEF", false},
		{"trailing newline", "1234567890ABCDEF\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	id, err := Parse("1234 5678 90ab cdef")
	require.NoError(t, err)
	assert.Equal(t, "1234567890ABCDEF", id)

	_, err = Parse("not-a-card")
	require.ErrorIs(t, err, ErrInvalid)
}

func FuzzNormalize(f *testing.F) {
	f.Add("1234567890abcdef")
	f.Add("1234 5678 90AB cdef")
	f.Add("not-a-card")
	f.Add(" \t\n")

	f.Fuzz(func(t *testing.T, raw string) {
		got := Normalize(raw)

		if strings.IndexFunc(got, unicode.IsSpace) >= 0 {
			t.Fatalf("Normalize(%q) = %q contains whitespace", raw, got)
		}
		if strings.ToUpper(got) != got {
			t.Fatalf("Normalize(%q) = %q is not upper case", raw, got)
		}
		if Normalize(got) != got {
			t.Fatalf("Normalize is not idempotent for %q", raw)
		}

		hex := len(got) == Length && strings.Trim(got, "0123456789ABCDEF") == ""
		if Validate(got) != hex {
			t.Fatalf("Validate(%q) = %v, want %v", got, Validate(got), hex)
		}
	})
}

package charset_test

import (
	"testing"

	"github.com/oceanus-health/dicomcore/charset"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ISO_IR 13 variant", "ISO_IR 13", "ISO 2022 IR 13"},
		{"already canonical", "ISO 2022 IR 13", "ISO 2022 IR 13"},
		{"ISO_IR 192 unchanged", "ISO_IR 192", "ISO_IR 192"},
		{"unrecognized passthrough", "ISO_IR 999", "ISO_IR 999"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, charset.CanonicalName(tc.input))
		})
	}
}

func TestDecodeGeneric_DefaultASCII(t *testing.T) {
	out := charset.DecodeGeneric([]byte("HELLO"), nil)
	assert.Equal(t, "HELLO", out)
}

func TestDecodeGeneric_UTF8(t *testing.T) {
	out := charset.DecodeGeneric([]byte("caf\xc3\xa9"), []string{"ISO_IR 192"})
	assert.Equal(t, "café", out)
}

func TestDecodeGeneric_LossyNeverErrors(t *testing.T) {
	out := charset.DecodeGeneric([]byte{0xFF, 0xFE}, nil)
	assert.NotEmpty(t, out)
}

func TestDecodeGeneric_UnrecognizedEscapePassesThrough(t *testing.T) {
	// ESC + an unrecognized triple should surface the ESC byte as data,
	// not be swallowed.
	raw := []byte{0x1B, 0x2E, 0x46, 'A'}
	out := charset.DecodeGeneric(raw, []string{"ISO 2022 IR 6", "ISO 2022 IR 87"})
	assert.Contains(t, out, "A")
}

func TestDecodePersonName_SplitsOnBackslashAndEquals(t *testing.T) {
	raw := []byte("Yamada^Tarou=Group2\\Second^Value")
	out := charset.DecodePersonName(raw, nil)
	assert.Equal(t, []string{"Yamada^Tarou=Group2", "Second^Value"}, out)
}

func TestDecodePersonName_SingleByteGroupDecodesHalfWidthKatakana(t *testing.T) {
	// "ﾔﾏﾀﾞ^ﾀﾛｳ" in JIS X 0201: the alphabetic component group must decode
	// half-width Katakana even though it never carries an ISO 2022 escape.
	raw := []byte{0xD4, 0xCF, 0xC0, 0xDE, '^', 0xC0, 0xDB, 0xB3}
	out := charset.DecodePersonName(raw, []string{"ISO 2022 IR 13"})
	assert.Equal(t, []string{"ﾔﾏﾀﾞ^ﾀﾛｳ"}, out)
}

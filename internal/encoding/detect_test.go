package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/budgetly/internal/encoding"
)

const statement = "date;description;amount\n2024-03-01;Café Ñandú;-3,50\n2024-03-02;Salário;1.200,00\n"

func TestDecode(t *testing.T) {
	windows1252, err := charmap.Windows1252.NewEncoder().String(statement)
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(statement)
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset string
	}{
		{name: "UTF8Passthrough", input: []byte(statement), wantCharset: encoding.UTF8},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, statement...), wantCharset: encoding.UTF8},
		{name: "UTF16LE", input: []byte(utf16le), wantCharset: encoding.UTF16LE},
		{name: "Windows1252", input: []byte(windows1252)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, statement, string(got))

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			} else {
				assert.NotEqual(t, encoding.UTF8, charset)
			}
		})
	}
}

func TestDecode_RuneSplitAtSniffBoundary(t *testing.T) {
	// "é" is two bytes; the padding puts its first byte at the end of the sniff window.
	input := strings.Repeat("a", 4095) + "é tail"

	r, charset, err := encoding.Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/moneyballs/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	const text = "Descrição;Montante\nCafé;-12,50\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "UTF8Passthrough", input: []byte(text)},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, text...)},
		{name: "UTF16LE", input: utf16le},
		{name: "Windows1252", input: latin1},
		{name: "Empty", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := text
			if tt.input == nil {
				want = ""
			}

			assert.Equal(t, want, readAll(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_LongInput(t *testing.T) {
	row := "Renda;-999,00\n"
	input := bytes.Repeat([]byte(row), 1000)

	assert.Equal(t, string(input), readAll(t, input))
}

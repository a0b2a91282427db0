package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/fieldservice/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Nombre;Número de Serie;Ubicación\nCaldera;SN-1;Sótano\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 "Ubicación;Sótano\n": ó = 0xF3
	latin1Bytes := []byte{
		'U', 'b', 'i', 'c', 'a', 'c', 'i', 0xF3, 'n', ';',
		'S', 0xF3, 't', 'a', 'n', 'o', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Ubicación;Sótano\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Name;Serial Number\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Name;Serial Number\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := encoder.Bytes([]byte("Nombre;Ubicación\n"))
	require.NoError(t, err)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Nombre;Ubicación\n", string(got))
}

func TestNewUTF8Reader_RuneAcrossSniffBoundary(t *testing.T) {
	tests := []struct {
		name   string
		prefix int
		split  string
	}{
		{name: "two-byte rune split", prefix: 4095, split: "ó"},
		{name: "three-byte rune split after one byte", prefix: 4095, split: "€"},
		{name: "three-byte rune split after two bytes", prefix: 4094, split: "€"},
		{name: "rune ends on the boundary", prefix: 4094, split: "ó"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.prefix) + tt.split + ";Sótano\n"

			r, err := encoding.NewUTF8Reader(strings.NewReader(input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, input, string(got))
		})
	}
}

package sniffer

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, TypePNG},
		{"gif", []byte("GIF89a......"), TypeGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP},
		{"avif", []byte("\x00\x00\x00\x1cftypavif\x00\x00\x00\x00"), TypeAVIF},
		{"svg", []byte(`  <svg xmlns="http://www.w3.org/2000/svg"></svg>`), TypeSVG},
		{"svg with prolog", []byte(`<?xml version="1.0"?><svg></svg>`), TypeSVG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHead(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type)
			assert.NotEmpty(t, got.MIME)
		})
	}
}

func TestDetectHead_Unknown(t *testing.T) {
	for _, head := range [][]byte{nil, []byte("%PDF-1.7"), []byte(`<?xml version="1.0"?><html/>`)} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectHead_InspectsOnlyHead(t *testing.T) {
	data := append(bytes.Repeat([]byte(" "), HeadSize), []byte("<svg></svg>")...)
	_, err := DetectHead(data)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestLookups(t *testing.T) {
	typ, ok := FromMIME("image/jpg")
	assert.True(t, ok)
	assert.Equal(t, TypeJPEG, typ)
	assert.Equal(t, "jpg", typ.Ext())

	_, ok = FromMIME("application/pdf")
	assert.False(t, ok)

	typ, ok = FromExt(".SVG")
	assert.True(t, ok)
	assert.Equal(t, TypeSVG, typ)

	_, ok = FromExt("exe")
	assert.False(t, ok)
}

func TestDeclaredType(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", DeclaredType(h))
	h.Set("Content-Type", "image/png; charset=binary")
	assert.Equal(t, "image/png", DeclaredType(h))
}

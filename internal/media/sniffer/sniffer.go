// Package sniffer identifies supported image formats from their leading bytes.
package sniffer

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWEBP MediaType = "webp"
	TypeAVIF MediaType = "avif"
	TypeSVG  MediaType = "svg"
)

// HeadSize is how many leading bytes DetectHead needs at most.
const HeadSize = 512

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
}

var mimeTypes = map[MediaType]string{
	TypeJPEG: "image/jpeg",
	TypePNG:  "image/png",
	TypeGIF:  "image/gif",
	TypeWEBP: "image/webp",
	TypeAVIF: "image/avif",
	TypeSVG:  "image/svg+xml",
}

// Ext is the file extension stored objects of this type get.
func (t MediaType) Ext() string {
	if t == TypeJPEG {
		return "jpg"
	}
	return string(t)
}

// FromMIME maps a declared content type to a supported media type.
func FromMIME(contentType string) (MediaType, bool) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "image/jpg" {
		contentType = "image/jpeg"
	}
	for t, m := range mimeTypes {
		if m == contentType {
			return t, true
		}
	}
	return "", false
}

// FromExt maps a file extension, with or without the dot, to a media type.
func FromExt(ext string) (MediaType, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	t := MediaType(ext)
	_, ok := mimeTypes[t]
	return t, ok
}

type signature struct {
	typ   MediaType
	match func(head []byte) bool
}

func magic(offset int, prefixes ...string) func([]byte) bool {
	return func(head []byte) bool {
		for _, p := range prefixes {
			if len(head) >= offset+len(p) && string(head[offset:offset+len(p)]) == p {
				return true
			}
		}
		return false
	}
}

var signatures = []signature{
	{TypeJPEG, magic(0, "\xff\xd8\xff")},
	{TypePNG, magic(0, "\x89PNG\r\n\x1a\n")},
	{TypeGIF, magic(0, "GIF87a", "GIF89a")},
	{TypeWEBP, func(h []byte) bool { return magic(0, "RIFF")(h) && magic(8, "WEBP")(h) }},
	{TypeAVIF, isAVIF},
	{TypeSVG, isSVG},
}

// DetectHead matches the first bytes of a file against the known signatures.
// Only the first HeadSize bytes are inspected.
func DetectHead(head []byte) (Result, error) {
	if len(head) > HeadSize {
		head = head[:HeadSize]
	}
	for _, sig := range signatures {
		if sig.match(head) {
			return Result{Type: sig.typ, MIME: mimeTypes[sig.typ]}, nil
		}
	}
	return Result{}, ErrUnknownType
}

// isAVIF looks for an ISO-BMFF ftyp box carrying an avif brand.
func isAVIF(head []byte) bool {
	if !magic(4, "ftyp")(head) {
		return false
	}
	brands := head[8:]
	return bytes.Contains(brands, []byte("avif")) || bytes.Contains(brands, []byte("avis"))
}

// isSVG accepts an XML prolog only when an <svg element follows in the head.
func isSVG(head []byte) bool {
	text := strings.TrimSpace(strings.TrimPrefix(string(head), "\ufeff"))
	if strings.HasPrefix(text, "<svg") {
		return true
	}
	return strings.HasPrefix(text, "<?xml") && strings.Contains(text, "<svg")
}

// DeclaredType returns the media type of a Content-Type header without parameters.
func DeclaredType(header http.Header) string {
	raw := header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(raw, ";", 2)[0])
	}
	return mediaType
}

// Package svg strips active content from user-supplied SVG documents.
package svg

import (
	"bytes"
	"errors"
	"regexp"
)

var ErrNotSVG = errors.New("not an svg document")

// strip lists what is removed, in order: script elements (paired and
// self-closing), foreignObject subtrees, on* event attributes and
// javascript: links.
var strip = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<\s*script\b.*?<\s*/\s*script\s*>`),
	regexp.MustCompile(`(?is)<\s*script\b[^>]*/\s*>`),
	regexp.MustCompile(`(?is)<\s*foreignObject\b.*?<\s*/\s*foreignObject\s*>`),
	regexp.MustCompile(`(?is)\son[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`),
	regexp.MustCompile(`(?is)\s(xlink:)?href\s*=\s*("\s*javascript:[^"]*"|'\s*javascript:[^']*')`),
}

// Sanitize returns a copy of input with active content removed.
func Sanitize(input []byte) ([]byte, error) {
	if !bytes.Contains(bytes.ToLower(input), []byte("<svg")) {
		return nil, ErrNotSVG
	}
	out := bytes.Clone(input)
	for _, re := range strip {
		out = re.ReplaceAll(out, nil)
	}
	return out, nil
}

package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	input := []byte(`<svg xmlns="http://www.w3.org/2000/svg" onload='alert(1)'>` +
		`<script>alert(2)</script>` +
		`<script src="x.js"/>` +
		`<a href="javascript:alert(3)"><rect width="10" height="10" onclick="steal()"/></a>` +
		`<foreignObject><iframe src="https://evil.example"></iframe></foreignObject>` +
		`</svg>`)

	out, err := Sanitize(input)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "alert")
	assert.NotContains(t, s, "script")
	assert.NotContains(t, s, "onclick")
	assert.NotContains(t, s, "iframe")
	assert.Contains(t, s, `<rect width="10" height="10"/>`)
}

func TestSanitize_NotSVG(t *testing.T) {
	_, err := Sanitize([]byte("<html></html>"))
	assert.ErrorIs(t, err, ErrNotSVG)
}

package barcode

import (
	"bytes"
	"fmt"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCode128(t *testing.T) {
	data, err := Render(Spec{Text: "DMUN-0042"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
	assert.Zero(t, img.Bounds().Dx()%DefaultScale)

	// IHDR bit depth
	assert.Equal(t, byte(8), data[24])
}

func TestRenderScale(t *testing.T) {
	one, err := Image(Spec{Text: "42", Scale: 1, Height: 5})
	require.NoError(t, err)
	four, err := Image(Spec{Text: "42", Scale: 4, Height: 5})
	require.NoError(t, err)
	assert.Equal(t, one.Bounds().Dx()*4, four.Bounds().Dx())
	assert.Equal(t, 5, four.Bounds().Dy())
}

func TestRenderPDF417(t *testing.T) {
	img, err := Image(Spec{Symbology: PDF417, Text: "DMUN-0042", Scale: 2})
	require.NoError(t, err)
	assert.False(t, img.Bounds().Empty())
	assert.GreaterOrEqual(t, img.Bounds().Dy(), DefaultHeight)
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(Spec{Text: "  "})
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = Render(Spec{Symbology: "qr", Text: "x"})
	require.Error(t, err)
}

func TestParseSymbology(t *testing.T) {
	for in, want := range map[string]Symbology{"": Code128, "CODE128": Code128, " pdf417 ": PDF417} {
		got, err := ParseSymbology(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSymbology("ean13")
	require.Error(t, err)
}

func ExampleRender() {
	data, err := Render(Spec{Symbology: Code128, Text: "A-17"})
	if err != nil {
		panic(err)
	}
	fmt.Println(len(data) > 0)
	// Output: true
}

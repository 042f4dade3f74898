package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxImageSize is the longest edge, in pixels, an embedded image may
// have before it is downscaled.
const DefaultMaxImageSize = 2000

// Flags are rasterised at the resolution the static flag set is shipped in.
const (
	svgRasterWidth  = 1000
	svgRasterHeight = 750
)

// Normalize converts a into a form the PDF engine embeds reliably: 8-bit,
// non-interlaced PNG or baseline JPEG. SVGs are rasterised, other formats
// decoded and re-encoded, and images whose longest edge exceeds maxSize are
// downscaled. A maxSize <= 0 disables downscaling.
func Normalize(a Asset, maxSize int) (Asset, error) {
	if len(a.Data) == 0 {
		return Asset{}, fmt.Errorf("assets: empty %s image", a.MIMEType)
	}
	if a.MIMEType == MIMESVG {
		img, err := rasterizeSVG(a.Data, svgRasterWidth)
		if err != nil {
			return Asset{}, err
		}
		return encodePNG(img)
	}

	img, format, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return Asset{}, fmt.Errorf("assets: decoding %s image: %w", a.MIMEType, err)
	}

	b := img.Bounds()
	if maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		return encodePNG(imaging.Fit(img, maxSize, maxSize, imaging.Lanczos))
	}

	switch {
	case format == "jpeg" && isBaselineJPEG(a.Data):
		return Asset{Data: a.Data, MIMEType: MIMEJPEG}, nil
	case format == "png" && isSimplePNG(a.Data):
		return Asset{Data: a.Data, MIMEType: MIMEPNG}, nil
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) (Asset, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Clone(img)); err != nil {
		return Asset{}, fmt.Errorf("assets: encoding png: %w", err)
	}
	return Asset{Data: buf.Bytes(), MIMEType: MIMEPNG}, nil
}

// isSimplePNG reports an 8-bit or lower, non-interlaced PNG. The IHDR chunk
// follows the 8-byte signature: bit depth is at offset 24, interlace at 28.
func isSimplePNG(data []byte) bool {
	if len(data) < 29 || string(data[12:16]) != "IHDR" {
		return false
	}
	return data[24] <= 8 && data[28] == 0
}

// isBaselineJPEG rejects progressive JPEGs, which the PDF engine cannot read.
func isBaselineJPEG(data []byte) bool {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 {
		return false
	}
	for i := 2; i+3 < len(data); {
		if data[i] != 0xFF {
			return false
		}
		marker := data[i+1]
		switch marker {
		case 0xC0, 0xC1:
			return true
		case 0xC2:
			return false
		case 0xDA, 0xD9:
			return false
		}
		i += 2 + int(data[i+2])<<8 + int(data[i+3])
	}
	return false
}

// rasterizeSVG renders an SVG document width pixels wide, keeping the aspect
// ratio of its view box.
func rasterizeSVG(data []byte, width int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("assets: parsing svg: %w", err)
	}
	height := svgRasterHeight
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		height = int(float64(width) * icon.ViewBox.H / icon.ViewBox.W)
	}
	if height <= 0 {
		return nil, fmt.Errorf("assets: svg has an empty view box")
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)
	return rgba, nil
}

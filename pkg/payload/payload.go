// Package payload converts uploaded image bytes into the transport encoding
// expected by vision chat endpoints: a downscaled JPEG carried as base64
// inside a data URL.
package payload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/tkaric/postgen/pkg/types"
)

// supportedMimeTypes are the upload formats accepted from the browser.
var supportedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsSupported reports whether the MIME type is an accepted upload format.
func IsSupported(mimeType string) bool {
	return supportedMimeTypes[mimeType]
}

// SniffMimeType returns the declared MIME type when it is a supported image
// format, otherwise the type detected from the content itself.
func SniffMimeType(data []byte, declared string) string {
	if IsSupported(declared) {
		return declared
	}
	return http.DetectContentType(data)
}

// Decode decodes uploaded image bytes. The declared MIME type is advisory;
// the actual content decides the decoder via the registered image formats.
func Decode(data []byte, declared string) (image.Image, string, error) {
	mimeType := SniffMimeType(data, declared)
	if !IsSupported(mimeType) {
		return nil, "", fmt.Errorf("unsupported image type %s", mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	return img, mimeType, nil
}

// PrepareForModel re-encodes an image as base64 JPEG for the model request,
// downscaling the long side to opts.MaxLongSide when it exceeds the bound.
func PrepareForModel(img image.Image, opts types.PayloadOptions) (string, error) {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	img = fitLongSide(img, opts.MaxLongSide)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("failed to encode JPEG payload: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DataURL wraps a base64 JPEG payload in the data URL form used by
// OpenAI-compatible image_url content parts.
func DataURL(b64 string) string {
	return "data:image/jpeg;base64," + b64
}

// PreviewWebP produces a compact WebP data URL for echoing the upload back
// to the results page without persisting anything server-side.
func PreviewWebP(img image.Image, maxLongSide int, quality float32) (string, error) {
	img = fitLongSide(img, maxLongSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("failed to encode WebP preview: %w", err)
	}

	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitLongSide downscales img so its longer side is at most maxLongSide.
// Never upscales; maxLongSide <= 0 keeps the original size.
func fitLongSide(img image.Image, maxLongSide int) image.Image {
	if maxLongSide <= 0 {
		return img
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	long := w
	if h > long {
		long = h
	}
	if long <= maxLongSide {
		return img
	}

	if w >= h {
		return imaging.Resize(img, maxLongSide, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxLongSide, imaging.Lanczos)
}

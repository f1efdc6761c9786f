package common

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/pixelfit/backend/pkg/errorx"
)

const jpegQuality = 92

// OutputSize is one target frame images are resized into.
type OutputSize struct {
	Label  string
	Width  int
	Height int
}

// OutputSizes lists the supported target frames. Order is stable so the
// resulting archive layout is deterministic.
var OutputSizes = []OutputSize{
	{Label: "album_ditto_soundcloud", Width: 3000, Height: 3000},
	{Label: "youtube_thumbnail", Width: 1280, Height: 720},
	{Label: "instagram_square", Width: 1080, Height: 1080},
	{Label: "instagram_portrait", Width: 1080, Height: 1350},
	{Label: "instagram_reels", Width: 1080, Height: 1920},
}

// DecodeImage reads an uploaded image by its declared content type.
// Only JPEG and PNG uploads are accepted.
func DecodeImage(contentType string, r io.Reader) (image.Image, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return jpeg.Decode(r)
	case "image/png":
		return png.Decode(r)
	default:
		return nil, errorx.New(errorx.BadRequest, "Unsupported image type %s", contentType)
	}
}

// ResizeTo stretches img to exactly width x height, ignoring aspect ratio.
func ResizeTo(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

// EncodeJPEG writes img as a JPEG at the fixed output quality.
func EncodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
}

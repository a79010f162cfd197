package services

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// jpegQuality for the re-encoded still frame.
const jpegQuality = 90

// ProcessImageForVertical reframes an image to exactly targetWidth x targetHeight:
// center-crop to the target aspect ratio on whichever axis overshoots it, then
// a Lanczos resize to the exact dimensions, re-encoded as JPEG.
// Any decode or encode failure yields an *ImageError.
func ProcessImageForVertical(imageData []byte, targetWidth, targetHeight int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, &ImageError{Err: err}
	}

	bounds := img.Bounds()
	rect := cropRect(bounds.Dx(), bounds.Dy(), targetWidth, targetHeight)

	img = imaging.Crop(img, rect)
	img = imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, &ImageError{Err: err}
	}

	return buf.Bytes(), nil
}

// cropRect computes the centered crop that brings an origWidth x origHeight
// image to the target aspect ratio.
//
// Wider than target: keep full height, trim equal columns from both sides.
// Taller (or equal): keep full width, trim equal rows from top and bottom.
func cropRect(origWidth, origHeight, targetWidth, targetHeight int) image.Rectangle {
	targetRatio := float64(targetWidth) / float64(targetHeight)
	origRatio := float64(origWidth) / float64(origHeight)

	if origRatio > targetRatio {
		newWidth := int(float64(origHeight) * targetRatio)
		left := (origWidth - newWidth) / 2
		return image.Rect(left, 0, left+newWidth, origHeight)
	}

	newHeight := int(float64(origWidth) / targetRatio)
	top := (origHeight - newHeight) / 2
	return image.Rect(0, top, origWidth, top+newHeight)
}

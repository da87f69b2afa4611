package processor

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	// imaging registers jpeg, png, gif, bmp and tiff; webp is added here.
	_ "golang.org/x/image/webp"
)

// Decode reads an image and applies its EXIF orientation, since the
// recompressed copy carries no EXIF block.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

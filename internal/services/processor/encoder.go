package processor

import (
	"image"
	"image/jpeg"
	"io"

	"github.com/gen2brain/jpegli"
)

// Encoder writes img as a lossy image at the given quality.
type Encoder interface {
	Name() string
	Encode(w io.Writer, img image.Image, quality int) error
}

// JpegliEncoder encodes with jpegli, optimizing the Huffman tables so the
// output is smaller than a baseline encoder's at the same quality.
type JpegliEncoder struct{}

func NewJpegliEncoder() *JpegliEncoder {
	return &JpegliEncoder{}
}

func (e *JpegliEncoder) Name() string { return "jpegli" }

func (e *JpegliEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return jpegli.Encode(w, img, &jpegli.EncodingOptions{
		Quality:              quality,
		ChromaSubsampling:    image.YCbCrSubsampleRatio420,
		OptimizeCoding:       true,
		AdaptiveQuantization: true,
	})
}

// StdJPEGEncoder uses image/jpeg. Its Huffman tables are fixed.
type StdJPEGEncoder struct{}

func NewStdJPEGEncoder() *StdJPEGEncoder {
	return &StdJPEGEncoder{}
}

func (e *StdJPEGEncoder) Name() string { return "jpeg" }

func (e *StdJPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

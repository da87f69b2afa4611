package processor

import (
	"bytes"
	"fmt"
	"image"
	"math"
)

const (
	MaxQuality  = 95
	MinQuality  = 5
	QualityStep = 5

	bytesPerMB = 1024 * 1024
)

// CompressionResult holds the final encoding of one Compress call.
type CompressionResult struct {
	Data     []byte
	Quality  int
	Attempts []int
}

// Reader returns the encoded bytes positioned at their start.
func (r *CompressionResult) Reader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

func (r *CompressionResult) Len() int {
	return len(r.Data)
}

// Compressor re-encodes images until they fit a byte budget.
type Compressor struct {
	encoder Encoder
}

func NewCompressor(encoder Encoder) *Compressor {
	return &Compressor{encoder: encoder}
}

func (c *Compressor) EncoderName() string {
	return c.encoder.Name()
}

// Compress encodes img starting at MaxQuality and lowers the quality by
// QualityStep until the output fits maxBytes or MinQuality is reached. The
// MinQuality encoding is returned even when it is still over budget.
func (c *Compressor) Compress(img image.Image, maxBytes int64) (*CompressionResult, error) {
	rgb := ToRGB(img)

	quality := MaxQuality
	data, err := c.encode(rgb, quality)
	if err != nil {
		return nil, err
	}
	attempts := []int{quality}

	for int64(len(data)) > maxBytes && quality > MinQuality {
		quality -= QualityStep
		if data, err = c.encode(rgb, quality); err != nil {
			return nil, err
		}
		attempts = append(attempts, quality)
	}

	return &CompressionResult{
		Data:     data,
		Quality:  quality,
		Attempts: attempts,
	}, nil
}

// encode always starts from an empty buffer; earlier attempts are discarded.
func (c *Compressor) encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, img, quality); err != nil {
		return nil, fmt.Errorf("failed to encode image at quality %d: %w", quality, err)
	}
	return buf.Bytes(), nil
}

// MegabytesToBytes converts a fractional megabyte budget (1 MB = 1 MiB) to
// bytes, rounding down.
func MegabytesToBytes(mb float64) int64 {
	return int64(math.Floor(mb * bytesPerMB))
}

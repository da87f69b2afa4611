package utils

import (
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/phambaophuc/image-shrink/internal/models"
)

const (
	CompressedPrefix = "compressed_"
	OutputMIMEType   = "image/jpeg"
)

// IsImageType reports whether a MIME type selects a file for compression.
// The match is a plain, case-sensitive prefix test.
func IsImageType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// FilterImages keeps the files whose MIME type starts with image/.
func FilterImages(files []models.RemoteFile) []models.RemoteFile {
	images := make([]models.RemoteFile, 0, len(files))
	for _, f := range files {
		if IsImageType(f.MIMEType) {
			images = append(images, f)
		}
	}
	return images
}

// CountByType tallies files per MIME type. Files without one count as "unknown".
func CountByType(files []models.RemoteFile) map[string]int {
	counts := make(map[string]int)
	for _, f := range files {
		mimeType := f.MIMEType
		if mimeType == "" {
			mimeType = "unknown"
		}
		counts[mimeType]++
	}
	return counts
}

// CompressedName is the name the recompressed copy is uploaded under.
func CompressedName(filename string) string {
	return CompressedPrefix + filename
}

// ContentHash returns the hex xxHash64 of data.
func ContentHash(data []byte) string {
	sum := xxhash.Sum64(data)
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(sum)
		sum >>= 8
	}
	return hex.EncodeToString(b)
}

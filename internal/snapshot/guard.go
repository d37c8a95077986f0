package snapshot

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// DefaultGuardBytes is the compressed snapshot ceiling.
const DefaultGuardBytes = 512 * 1024

var ErrOverGuard = errors.New("compressed snapshot exceeds guard")

// CompressedSize reports the gzip size of data.
func CompressedSize(data []byte) (int, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(data); err != nil {
		return 0, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	return buf.Len(), nil
}

// CheckGuard returns the compressed size and ErrOverGuard when it is above limit.
func CheckGuard(data []byte, limit int) (int, error) {
	size, err := CompressedSize(data)
	if err != nil {
		return 0, err
	}
	if limit > 0 && size > limit {
		return size, fmt.Errorf("%w: %d > %d bytes", ErrOverGuard, size, limit)
	}
	return size, nil
}

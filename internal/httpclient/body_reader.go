package httpclient

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBodyLimit caps how much of a response body is buffered.
const DefaultBodyLimit int64 = 4 << 20

// ErrBodyTooLarge is returned when a response exceeds the read limit.
var ErrBodyTooLarge = errors.New("response body too large")

// ReadBody reads at most limit bytes from r. A limit <= 0 uses DefaultBodyLimit.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}

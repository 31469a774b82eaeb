package palette

import (
	"errors"
	"io"
)

// MaxInputBytes caps how much Read will consume from a single source.
const MaxInputBytes = 4 << 20

// ErrInputTooLarge is returned when a palette source exceeds MaxInputBytes.
var ErrInputTooLarge = errors.New("palette input exceeds size limit")

// limitedReader wraps an io.Reader and fails once more than Remaining bytes
// are available. Unlike io.LimitReader it reports the overflow instead of
// silently truncating the palette.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func newLimitedReader(r io.Reader, maxBytes int64) *limitedReader {
	return &limitedReader{r: r, remaining: maxBytes}
}

// Read implements io.Reader with size limits.
func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Input of exactly the limit is fine; anything after it is not.
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, ErrInputTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

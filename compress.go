package synthmark

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflateText decompresses a zlib-compressed iTXt text segment, as
// written by foreign tools (compression flag 1, method 0). Markers built
// by this package are always stored uncompressed; this path only runs
// during detection. maxLen bounds the inflated size to prevent
// decompression bombs.
func inflateText(in []byte, maxLen int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, int64(maxLen)+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxLen {
		return nil, fmt.Errorf("%w: inflated text exceeds %d bytes", ErrLimitExceeded, maxLen)
	}
	return out, nil
}

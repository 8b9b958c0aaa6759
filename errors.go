package synthmark

import "errors"

var (
	ErrUnsupportedFormat = errors.New("synthmark: unsupported format")
	ErrNotPNG            = errors.New("synthmark: not a PNG stream")
	ErrMissingIEND       = errors.New("synthmark: IEND chunk not found")
	ErrTruncated         = errors.New("synthmark: truncated container")
	ErrNoTag             = errors.New("synthmark: no ID3v2 tag")
	ErrMarkerAbsent      = errors.New("synthmark: marker not present")
	ErrMalformedRecord   = errors.New("synthmark: malformed marker record")
	ErrLimitExceeded     = errors.New("synthmark: limit exceeded")
	ErrValidation        = errors.New("synthmark: validation failed")
)

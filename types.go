package synthmark

import "strings"

// Format identifies a supported host container type.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatMP3
)

// String returns the canonical format string.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatMP3:
		return "mp3"
	default:
		return "unknown"
	}
}

// ParseFormat maps a caller-supplied format string to a Format. Matching
// is case-insensitive and a leading "image/" MIME prefix is stripped.
// Anything unrecognized maps to FormatUnknown, which every operation
// treats as an explicit pass-through.
func ParseFormat(s string) Format {
	f := strings.ToLower(strings.TrimSpace(s))
	f = strings.TrimPrefix(f, "image/")
	switch f {
	case "png":
		return FormatPNG
	case "mp3":
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// pngSignature is the fixed 8-byte PNG file signature.
var pngSignature = [8]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

const (
	chunkTypeITXt = "iTXt"
	chunkTypeIEND = "IEND"

	// itxtKeyword identifies a marker chunk among arbitrary iTXt chunks.
	itxtKeyword  = "SyntheticOrigin"
	itxtLanguage = "en"
)

const (
	id3Identifier   = "ID3"
	id3HeaderSize   = 10
	id3MajorVersion = 3

	commFrameID     = "COMM"
	commFrameHeader = 10
	commLanguage    = "eng"

	// commDescription identifies a marker frame among arbitrary COMM frames.
	commDescription = "SYNTHETIC_ORIGIN"

	// latin1Encoding is the ID3v2 text-encoding selector for ISO-8859-1.
	latin1Encoding = 0x00
)

const (
	imagePrefix = "SYNTHETIC_IMAGE"
	audioPrefix = "SYNTHETIC_AUDIO"

	fieldDelimiter = "|"
)

// DefaultPlatform is written into the platform slot when the caller
// leaves it empty; the serialized platform field is never blank.
const DefaultPlatform = "synthmark"

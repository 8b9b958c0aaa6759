package synthmark

import "bytes"

// Embed writes rec into buf according to format and returns the new
// buffer. Unsupported formats are an explicit pass-through: the input is
// returned unchanged, as a copy. Embed never fails visibly — the caller's
// content is never lost or corrupted by a marking failure.
func Embed(buf []byte, format string, rec Record, opts ...EmbedOption) []byte {
	switch ParseFormat(format) {
	case FormatPNG:
		return EmbedPNG(buf, rec, opts...)
	case FormatMP3:
		return EmbedMP3(buf, rec, opts...)
	default:
		cfg := newEmbedConfig(opts)
		cfg.log.Debug().
			Err(ErrUnsupportedFormat).
			Str("format", format).
			Msg("embed: passing input through")
		return bytes.Clone(buf)
	}
}

// Detect scans buf for a previously embedded marker, sniffing the
// container type from its leading bytes. ok is false when the buffer is
// not a supported container, carries no marker, or the marker cannot be
// decoded — the three cases are deliberately indistinguishable to the
// caller.
func Detect(buf []byte, opts ...DetectOption) (*Record, bool) {
	switch {
	case IsPNG(buf):
		return DetectPNG(buf, opts...)
	case HasID3Tag(buf):
		return DetectMP3(buf, opts...)
	default:
		return nil, false
	}
}

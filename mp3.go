package synthmark

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// HasID3Tag reports whether buf begins with an ID3v2 tag header.
func HasID3Tag(buf []byte) bool {
	return len(buf) >= id3HeaderSize && string(buf[:len(id3Identifier)]) == id3Identifier
}

// EmbedMP3 prepends a fresh single-frame ID3v2.3 tag carrying the marker.
// An existing leading tag is replaced rather than stacked onto; a tag
// whose declared size exceeds the buffer is left in place and the new tag
// is prepended anyway. On any failure the input is returned unchanged, as
// a copy, and the cause is only logged.
func EmbedMP3(buf []byte, rec Record, opts ...EmbedOption) []byte {
	cfg := newEmbedConfig(opts)
	out, err := embedMP3(buf, rec, cfg)
	if err != nil {
		cfg.log.Debug().Err(err).Msg("mp3 embed: passing input through")
		return bytes.Clone(buf)
	}
	return out
}

// DetectMP3 searches buf for a marker comment frame. The search is
// substring-based over the raw bytes rather than a full frame parse,
// preserving wire compatibility with existing marked files. ok is false
// when buf carries no tag, no marker, or a marker that cannot be decoded.
func DetectMP3(buf []byte, opts ...DetectOption) (*Record, bool) {
	cfg := newDetectConfig(opts)
	rec, err := detectMP3(buf, cfg)
	if err != nil {
		cfg.log.Debug().Err(err).Msg("mp3 detect: no marker")
		return nil, false
	}
	return rec, true
}

// decodeSyncsafe reads a 4-byte syncsafe integer: 7 bits per byte, most
// significant byte first, 28 significant bits total.
func decodeSyncsafe(b []byte) int {
	return int(b[0]&0x7F)<<21 | int(b[1]&0x7F)<<14 | int(b[2]&0x7F)<<7 | int(b[3]&0x7F)
}

// encodeSyncsafe writes n as a 4-byte syncsafe integer. The top bit of
// every byte stays clear so the value can never alias an MPEG sync word.
func encodeSyncsafe(n int) [4]byte {
	return [4]byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}

// id3TagSize returns the total span of the leading ID3v2 tag — header
// plus frames — or 0 when buf carries no tag.
func id3TagSize(buf []byte) int {
	if !HasID3Tag(buf) {
		return 0
	}
	return id3HeaderSize + decodeSyncsafe(buf[6:10])
}

func embedMP3(buf []byte, rec Record, cfg embedConfig) ([]byte, error) {
	rec = rec.withDefaults(cfg)
	if err := validateRecord(rec, cfg.limits); err != nil {
		return nil, err
	}
	tag := buildCommentTag(rec)
	if len(tag)-id3HeaderSize > cfg.limits.MaxTagBodyLen {
		return nil, fmt.Errorf("%w: tag body exceeds %d bytes", ErrLimitExceeded, cfg.limits.MaxTagBodyLen)
	}

	audio := buf
	if size := id3TagSize(buf); size > 0 && size <= len(buf) {
		// Replace the existing tag. An inconsistent declared size keeps
		// the malformed tag in place instead of failing the embed.
		audio = buf[size:]
	}
	out := make([]byte, 0, len(tag)+len(audio))
	out = append(out, tag...)
	out = append(out, audio...)
	return out, nil
}

// buildCommentTag frames the record's audio payload as a complete
// ID3v2.3 tag holding a single COMM frame.
func buildCommentTag(rec Record) []byte {
	text := rec.audioText()

	body := make([]byte, 0, len(commLanguage)+len(commDescription)+len(text)+3)
	body = append(body, latin1Encoding)
	body = append(body, commLanguage...)
	body = append(body, commDescription...)
	body = append(body, 0) // short description terminator
	body = append(body, text...)
	body = append(body, 0) // payload terminator

	frame := make([]byte, 0, len(body)+commFrameHeader)
	frame = append(frame, commFrameID...)
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(body)))
	frame = append(frame, 0, 0) // frame flags
	frame = append(frame, body...)

	tag := make([]byte, 0, len(frame)+id3HeaderSize)
	tag = append(tag, id3Identifier...)
	tag = append(tag, id3MajorVersion, 0, 0) // major, revision, flags
	size := encodeSyncsafe(len(frame))
	tag = append(tag, size[:]...)
	tag = append(tag, frame...)
	return tag
}

func detectMP3(buf []byte, cfg detectConfig) (*Record, error) {
	if !HasID3Tag(buf) {
		return nil, ErrNoTag
	}
	descIdx := bytes.Index(buf, []byte(commDescription))
	if descIdx < 0 {
		return nil, ErrMarkerAbsent
	}
	// Skip the description and its terminator, then find the payload.
	rest := buf[min(descIdx+len(commDescription)+1, len(buf)):]
	prefIdx := bytes.Index(rest, []byte(audioPrefix))
	if prefIdx < 0 {
		return nil, ErrMarkerAbsent
	}
	span := rest[prefIdx:]
	if end := bytes.IndexByte(span, 0); end >= 0 {
		span = span[:end]
	}
	if len(span) > cfg.limits.MaxTextLen {
		return nil, fmt.Errorf("%w: text exceeds %d bytes", ErrLimitExceeded, cfg.limits.MaxTextLen)
	}
	if !utf8.Valid(span) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrMalformedRecord)
	}
	return parseMarkerText(string(span), audioPrefix)
}

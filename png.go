package synthmark

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// IsPNG reports whether buf starts with the fixed 8-byte PNG signature.
func IsPNG(buf []byte) bool {
	return len(buf) >= len(pngSignature) && bytes.Equal(buf[:len(pngSignature)], pngSignature[:])
}

// EmbedPNG splices a marker chunk into buf immediately ahead of the IEND
// chunk and returns the new buffer. On any failure — non-PNG input,
// missing IEND, invalid record — the input is returned unchanged, as a
// copy, and the cause is only logged.
func EmbedPNG(buf []byte, rec Record, opts ...EmbedOption) []byte {
	cfg := newEmbedConfig(opts)
	out, err := embedPNG(buf, rec, cfg)
	if err != nil {
		cfg.log.Debug().Err(err).Msg("png embed: passing input through")
		return bytes.Clone(buf)
	}
	return out
}

// DetectPNG walks buf's chunks looking for a marker iTXt chunk. ok is
// false when buf is not a PNG, carries no marker, or the marker cannot
// be decoded.
func DetectPNG(buf []byte, opts ...DetectOption) (*Record, bool) {
	cfg := newDetectConfig(opts)
	rec, err := detectPNG(buf, cfg)
	if err != nil {
		cfg.log.Debug().Err(err).Msg("png detect: no marker")
		return nil, false
	}
	return rec, true
}

func embedPNG(buf []byte, rec Record, cfg embedConfig) ([]byte, error) {
	if !IsPNG(buf) {
		return nil, ErrNotPNG
	}
	off, err := findIENDOffset(buf)
	if err != nil {
		return nil, err
	}
	rec = rec.withDefaults(cfg)
	if err := validateRecord(rec, cfg.limits); err != nil {
		return nil, err
	}
	chunk := buildMarkerChunk(rec)
	out := make([]byte, 0, len(buf)+len(chunk))
	out = append(out, buf[:off]...)
	out = append(out, chunk...)
	out = append(out, buf[off:]...)
	return out, nil
}

// findIENDOffset scans for the IEND chunk-type field and returns the
// offset of that chunk's length field, 4 bytes earlier: the insertion
// point for new chunks, which must precede IEND.
func findIENDOffset(buf []byte) (int, error) {
	for i := len(pngSignature); i+4 <= len(buf); i++ {
		if string(buf[i:i+4]) == chunkTypeIEND {
			return i - 4, nil
		}
	}
	return 0, ErrMissingIEND
}

// buildMarkerChunk frames the record's image payload as an iTXt chunk:
// 4-byte big-endian body length, 4-byte type, body, 4-byte big-endian
// CRC-32 over type ++ body. The length field is excluded from the CRC.
func buildMarkerChunk(rec Record) []byte {
	text := rec.imageText()

	body := make([]byte, 0, len(itxtKeyword)+len(itxtLanguage)+5+len(text))
	body = append(body, itxtKeyword...)
	body = append(body, 0)    // keyword terminator
	body = append(body, 0, 0) // compression flag + method: uncompressed
	body = append(body, itxtLanguage...)
	body = append(body, 0) // language terminator
	body = append(body, 0) // empty translated keyword
	body = append(body, text...)

	chunk := make([]byte, 0, len(body)+12)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)))
	chunk = append(chunk, chunkTypeITXt...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, checksum(chunk[4:]))
	return chunk
}

func detectPNG(buf []byte, cfg detectConfig) (*Record, error) {
	if !IsPNG(buf) || len(buf) < 20 {
		return nil, ErrNotPNG
	}
	off := len(pngSignature)
	for off+8 <= len(buf) {
		length := binary.BigEndian.Uint32(buf[off : off+4])
		chunkType := string(buf[off+4 : off+8])
		if chunkType == chunkTypeIEND {
			break
		}
		if length > cfg.limits.MaxChunkDataLen {
			return nil, fmt.Errorf("%w: chunk length %d", ErrLimitExceeded, length)
		}
		dataStart := off + 8
		dataEnd := dataStart + int(length)
		if dataEnd+4 > len(buf) {
			return nil, fmt.Errorf("%w: chunk extends past buffer", ErrTruncated)
		}
		if chunkType == chunkTypeITXt {
			// Foreign iTXt chunks fail the keyword check and the walk
			// continues; only a marker chunk ends it.
			if rec, err := decodeMarkerChunk(buf[dataStart:dataEnd], cfg.limits); err == nil {
				return rec, nil
			}
		}
		off = dataEnd + 4
	}
	return nil, ErrMarkerAbsent
}

// decodeMarkerChunk parses an iTXt chunk body and reconstructs the record
// when the body carries the marker keyword and image prefix.
func decodeMarkerChunk(body []byte, limits Limits) (*Record, error) {
	kEnd := bytes.IndexByte(body, 0)
	if kEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated keyword", ErrMalformedRecord)
	}
	if string(body[:kEnd]) != itxtKeyword {
		return nil, ErrMarkerAbsent
	}
	p := kEnd + 1
	if p+2 > len(body) {
		return nil, fmt.Errorf("%w: missing compression bytes", ErrTruncated)
	}
	compFlag, compMethod := body[p], body[p+1]
	p += 2

	langEnd := bytes.IndexByte(body[p:], 0)
	if langEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated language tag", ErrMalformedRecord)
	}
	p += langEnd + 1
	translatedEnd := bytes.IndexByte(body[p:], 0)
	if translatedEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated translated keyword", ErrMalformedRecord)
	}
	p += translatedEnd + 1

	text := body[p:]
	if compFlag != 0 {
		if compMethod != 0 {
			return nil, fmt.Errorf("%w: compression method %d", ErrMalformedRecord, compMethod)
		}
		inflated, err := inflateText(text, limits.MaxTextLen)
		if err != nil {
			return nil, err
		}
		text = inflated
	}
	if len(text) > limits.MaxTextLen {
		return nil, fmt.Errorf("%w: text exceeds %d bytes", ErrLimitExceeded, limits.MaxTextLen)
	}
	if !utf8.Valid(text) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrMalformedRecord)
	}
	return parseMarkerText(string(text), imagePrefix)
}

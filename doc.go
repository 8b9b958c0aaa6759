// Package synthmark embeds and recovers machine-readable synthetic-origin
// markers in PNG and MP3 containers without touching pixel or audio data.
//
// A marker is a small positional record (platform, source, timestamp and
// optional audit fields) carried in each format's native metadata unit:
// an iTXt chunk spliced ahead of IEND for PNG, and an ID3v2.3 COMM frame
// prepended as a fresh tag for MP3.
//
// # Wire Formats
//
// PNG marker chunk:
//   - type iTXt, keyword "SyntheticOrigin", language "en", uncompressed
//   - body: keyword\0 + flag(1) + method(1) + lang\0 + translated\0 + text
//   - framed as 4-byte big-endian body length, 4-byte type, body, and a
//     4-byte big-endian CRC-32 over type ++ body
//   - text: SYNTHETIC_IMAGE|platform|source|timestamp|userIdHash|model
//
// MP3 marker tag:
//   - outer header: "ID3", version 3.0, flags 0, 4-byte syncsafe size
//   - one COMM frame: 4-byte id, 4-byte big-endian body length, 2 zero
//     flag bytes; body = encoding(1) + "eng" + "SYNTHETIC_ORIGIN"\0 +
//     text\0
//   - text: SYNTHETIC_AUDIO|platform|source|timestamp|userIdHash
//
// # Basic Usage
//
// To embed a marker:
//
//	out := synthmark.Embed(data, "png", synthmark.Record{
//		Platform: "MyApp",
//		Source:   "dalle",
//		Model:    "dall-e-3",
//	})
//
// To recover one:
//
//	rec, ok := synthmark.Detect(out)
//	if ok {
//		fmt.Println(rec.Source)
//	}
//
// # Failure Semantics
//
// Embedding never fails visibly: a malformed container, an unsupported
// format string or an invalid record all yield the input buffer unchanged
// (as a copy), so caller content is never lost to a watermarking failure.
// Detection collapses every failure class to a single not-found result.
// The distinguished internal cause of either fallback is observable
// through an injected zerolog logger (see [WithEmbedLogger] and
// [WithDetectLogger]).
//
// All operations are pure transforms over byte slices: inputs are never
// mutated, no I/O is performed, and every call is safe to issue
// concurrently, even on the same buffer.
//
// # Security Considerations
//
// Decoding enforces configurable [Limits] on chunk lengths, inflated text
// sizes and record fields, including a decompression-bomb guard for
// zlib-compressed iTXt bodies written by foreign tools.
package synthmark

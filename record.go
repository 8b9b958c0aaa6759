package synthmark

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is the logical marker payload, independent of its binary
// encoding. A Record is treated as immutable: embedding augments a copy
// with defaults and never mutates the caller's value.
//
// UserIDHash is an opaque, pre-hashed audit identifier; the codec never
// hashes or validates its content. Model is only meaningful for image
// markers. For both optional fields the empty string means absent.
type Record struct {
	Platform   string `json:"platform"`
	Source     string `json:"source"`
	Timestamp  int64  `json:"timestamp"` // Unix epoch milliseconds, assigned at embed time when zero
	UserIDHash string `json:"userIdHash,omitempty"`
	Model      string `json:"model,omitempty"`
}

// withDefaults returns a copy of r with the platform and timestamp slots
// filled. Serialized records always carry both.
func (r Record) withDefaults(cfg embedConfig) Record {
	if r.Platform == "" {
		r.Platform = cfg.platform
	}
	if r.Timestamp == 0 {
		r.Timestamp = cfg.now().UnixMilli()
	}
	return r
}

// imageText renders the positional image payload. Optional fields occupy
// their slot as an empty string so downstream positions stay stable.
func (r Record) imageText() string {
	return strings.Join([]string{
		imagePrefix,
		r.Platform,
		r.Source,
		strconv.FormatInt(r.Timestamp, 10),
		r.UserIDHash,
		r.Model,
	}, fieldDelimiter)
}

// audioText renders the positional audio payload. Audio markers carry no
// model slot.
func (r Record) audioText() string {
	return strings.Join([]string{
		audioPrefix,
		r.Platform,
		r.Source,
		strconv.FormatInt(r.Timestamp, 10),
		r.UserIDHash,
	}, fieldDelimiter)
}

// parseMarkerText reconstructs a Record from a delimited payload. The
// prefix token counts as slot zero, so a well-formed payload splits into
// at least four slots (prefix, platform, source, timestamp); the
// userIdHash and model slots are optional and an empty slot parses to
// absent rather than to the empty string.
func parseMarkerText(text, prefix string) (*Record, error) {
	idx := strings.Index(text, prefix)
	if idx < 0 {
		return nil, ErrMarkerAbsent
	}
	fields := strings.Split(text[idx:], fieldDelimiter)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: %d of 4 required fields", ErrMalformedRecord, len(fields))
	}
	ts, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q", ErrMalformedRecord, fields[3])
	}
	rec := &Record{
		Platform:  fields[1],
		Source:    fields[2],
		Timestamp: ts,
	}
	if len(fields) > 4 {
		rec.UserIDHash = fields[4]
	}
	if len(fields) > 5 {
		rec.Model = fields[5]
	}
	return rec, nil
}

func defaultNow() time.Time { return time.Now() }

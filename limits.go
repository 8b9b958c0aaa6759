package synthmark

type Limits struct {
	MaxChunkDataLen uint32 // per-chunk data length accepted during the PNG walk
	MaxTextLen      int    // marker text bytes, after inflation for compressed chunks
	MaxFieldLen     int    // single record field
	MaxTagBodyLen   int    // ID3 tag body (frames after the 10-byte header)
}

func defaultLimits() Limits {
	return Limits{
		MaxChunkDataLen: 1<<31 - 1, // PNG spec ceiling for the length field
		MaxTextLen:      1 << 20,   // 1 MiB
		MaxFieldLen:     4096,
		MaxTagBodyLen:   1<<28 - 1, // syncsafe 28-bit ceiling
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxChunkDataLen == 0 {
		l.MaxChunkDataLen = d.MaxChunkDataLen
	}
	if l.MaxTextLen == 0 {
		l.MaxTextLen = d.MaxTextLen
	}
	if l.MaxFieldLen == 0 {
		l.MaxFieldLen = d.MaxFieldLen
	}
	if l.MaxTagBodyLen == 0 {
		l.MaxTagBodyLen = d.MaxTagBodyLen
	}
	return l
}

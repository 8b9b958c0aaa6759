package synthmark

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
)

// fakeAudio is a stand-in MPEG stream: a sync word followed by junk. The
// codecs never parse audio frames, they only need bytes after the tag.
func fakeAudio() []byte {
	return append([]byte{0xFF, 0xFB, 0x90, 0x00}, bytes.Repeat([]byte{0xAB}, 64)...)
}

func TestSyncsafe(t *testing.T) {
	tests := []struct {
		n    int
		want [4]byte
	}{
		{0, [4]byte{0, 0, 0, 0}},
		{1, [4]byte{0, 0, 0, 1}},
		{127, [4]byte{0, 0, 0, 0x7F}},
		{128, [4]byte{0, 0, 1, 0}},
		{257, [4]byte{0, 0, 2, 1}},
		{0x0FFFFFFF, [4]byte{0x7F, 0x7F, 0x7F, 0x7F}},
	}
	for _, tt := range tests {
		got := encodeSyncsafe(tt.n)
		if got != tt.want {
			t.Errorf("encodeSyncsafe(%d) = %v, want %v", tt.n, got, tt.want)
		}
		if back := decodeSyncsafe(got[:]); back != tt.n {
			t.Errorf("decodeSyncsafe(encodeSyncsafe(%d)) = %d", tt.n, back)
		}
	}
	// High bits in the input bytes are masked off, never interpreted.
	if got := decodeSyncsafe([]byte{0x80, 0x80, 0x80, 0x81}); got != 1 {
		t.Errorf("decodeSyncsafe with set high bits = %d, want 1", got)
	}
}

func TestHasID3Tag(t *testing.T) {
	tag := buildCommentTag(Record{Platform: "MyApp", Source: "musicgen", Timestamp: 1})
	if !HasID3Tag(tag) {
		t.Fatal("built tag not recognized")
	}
	if HasID3Tag(nil) || HasID3Tag([]byte("ID3")) || HasID3Tag(fakeAudio()) {
		t.Fatal("false positive on non-tag input")
	}
}

func TestID3TagSize(t *testing.T) {
	tag := buildCommentTag(Record{Platform: "MyApp", Source: "musicgen", Timestamp: 1})
	if got := id3TagSize(tag); got != len(tag) {
		t.Fatalf("tag size = %d, want %d", got, len(tag))
	}
	if got := id3TagSize(fakeAudio()); got != 0 {
		t.Fatalf("tag size on raw audio = %d, want 0", got)
	}
}

func TestBuildCommentTag_Layout(t *testing.T) {
	rec := Record{Platform: "MyApp", Source: "musicgen", Timestamp: 42, UserIDHash: "h"}
	tag := buildCommentTag(rec)

	if string(tag[:3]) != id3Identifier || tag[3] != id3MajorVersion || tag[4] != 0 || tag[5] != 0 {
		t.Fatalf("tag header = % X", tag[:6])
	}
	frameLen := decodeSyncsafe(tag[6:10])
	if id3HeaderSize+frameLen != len(tag) {
		t.Fatalf("declared size %d does not cover the tag (%d bytes)", frameLen, len(tag))
	}

	frame := tag[id3HeaderSize:]
	if string(frame[:4]) != commFrameID {
		t.Fatalf("frame id = %q", frame[:4])
	}
	bodyLen := binary.BigEndian.Uint32(frame[4:8])
	if commFrameHeader+int(bodyLen) != frameLen {
		t.Fatalf("frame body length %d inconsistent with frame span %d", bodyLen, frameLen)
	}
	if frame[8] != 0 || frame[9] != 0 {
		t.Fatalf("frame flags = % X, want zero", frame[8:10])
	}

	body := frame[commFrameHeader:]
	if body[0] != latin1Encoding {
		t.Fatalf("text encoding = %#x", body[0])
	}
	if string(body[1:4]) != commLanguage {
		t.Fatalf("language = %q", body[1:4])
	}
	want := commDescription + "\x00" + rec.audioText() + "\x00"
	if string(body[4:]) != want {
		t.Fatalf("body = %q, want %q", body[4:], want)
	}
}

func TestEmbedMP3_RoundTrip(t *testing.T) {
	in := fakeAudio()
	rec := Record{Platform: "MyApp", Source: "musicgen", UserIDHash: "deadbeef"}

	out := EmbedMP3(in, rec, WithNow(fixedClock))
	if !bytes.HasSuffix(out, in) {
		t.Fatal("audio bytes not preserved after the tag")
	}
	got, ok := DetectMP3(out)
	if !ok {
		t.Fatal("marker not detected after embed")
	}
	want := Record{
		Platform:   "MyApp",
		Source:     "musicgen",
		Timestamp:  fixedClock().UnixMilli(),
		UserIDHash: "deadbeef",
	}
	if *got != want {
		t.Fatalf("record = %+v, want %+v", *got, want)
	}
}

func TestEmbedMP3_ReplacesExistingTag(t *testing.T) {
	audio := fakeAudio()
	first := EmbedMP3(audio, Record{Platform: "First", Source: "a", Timestamp: 1})
	second := EmbedMP3(first, Record{Platform: "Second", Source: "b", Timestamp: 2})

	if n := bytes.Count(second, []byte(id3Identifier)); n != 1 {
		t.Fatalf("output holds %d tag headers, want 1", n)
	}
	if !bytes.HasSuffix(second, audio) {
		t.Fatal("audio bytes lost during tag replacement")
	}
	got, ok := DetectMP3(second)
	if !ok {
		t.Fatal("marker not detected")
	}
	if got.Platform != "Second" {
		t.Fatalf("platform = %q, want the replacing record", got.Platform)
	}
}

func TestEmbedMP3_OversizedDeclaredTag(t *testing.T) {
	// A tag whose declared size runs past the buffer is malformed; it must
	// stay in place with the new tag prepended before it.
	bogus := []byte{'I', 'D', '3', 3, 0, 0, 0x7F, 0x7F, 0x7F, 0x7F}
	in := append(bogus, fakeAudio()...)

	out := EmbedMP3(in, Record{Platform: "MyApp", Source: "a", Timestamp: 1})
	if !bytes.HasSuffix(out, in) {
		t.Fatal("malformed tag was stripped")
	}
	if !HasID3Tag(out) || bytes.Count(out, []byte(id3Identifier)) != 2 {
		t.Fatal("new tag not prepended ahead of the malformed one")
	}
}

func TestEmbedMP3_PassThrough(t *testing.T) {
	in := fakeAudio()
	out := EmbedMP3(in, Record{Source: "a|b"}) // delimiter fails validation
	if !bytes.Equal(out, in) {
		t.Fatal("pass-through output differs from input")
	}
	if &out[0] == &in[0] {
		t.Fatal("pass-through must return a copy, not the input slice")
	}
}

func TestEmbedMP3_EmptyInput(t *testing.T) {
	// Marking an empty buffer still yields a detectable tag.
	out := EmbedMP3(nil, Record{Platform: "MyApp", Source: "tts", Timestamp: 9})
	got, ok := DetectMP3(out)
	if !ok {
		t.Fatal("marker not detected in tag-only output")
	}
	if got.Source != "tts" {
		t.Fatalf("source = %q, want tts", got.Source)
	}
}

func TestDetectMP3_Boundaries(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("ID3"),
		fakeAudio(),
		// Valid tag, foreign comment, no marker.
		append(buildForeignComment(t), fakeAudio()...),
	}
	for i, in := range inputs {
		if rec, ok := DetectMP3(in); ok || rec != nil {
			t.Fatalf("case %d: detect found a marker", i)
		}
	}
}

// buildForeignComment produces an ID3v2.3 tag with an unrelated COMM frame
// using the id3v2 library, so detection is tested against third-party
// framing rather than our own.
func buildForeignComment(t *testing.T) []byte {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingISO,
		Language:    "eng",
		Description: "notes",
		Text:        "mastered 2024",
	})
	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEmbedMP3_ParsesWithID3Library(t *testing.T) {
	out := EmbedMP3(fakeAudio(), Record{Platform: "MyApp", Source: "musicgen"}, WithNow(fixedClock))

	tag, err := id3v2.ParseReader(bytes.NewReader(out), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2 parse of marked file failed: %v", err)
	}
	defer tag.Close()

	frames := tag.GetFrames(tag.CommonID("Comments"))
	if len(frames) != 1 {
		t.Fatalf("comment frames = %d, want 1", len(frames))
	}
	comm, ok := frames[0].(id3v2.CommentFrame)
	if !ok {
		t.Fatalf("frame type = %T", frames[0])
	}
	if comm.Language != commLanguage {
		t.Errorf("language = %q, want %q", comm.Language, commLanguage)
	}
	if comm.Description != commDescription {
		t.Errorf("description = %q, want %q", comm.Description, commDescription)
	}
	if !strings.HasPrefix(comm.Text, audioPrefix+fieldDelimiter) {
		t.Errorf("text = %q, want %q payload", comm.Text, audioPrefix)
	}
}

func TestDetectMP3_ForeignTagWithMarkerComment(t *testing.T) {
	// A marker written by the id3v2 library (different frame layout, same
	// description and payload) must still be detected.
	tag := id3v2.NewEmptyTag()
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingISO,
		Language:    "eng",
		Description: commDescription,
		Text:        "SYNTHETIC_AUDIO|Other|bark|1700000000123|h",
	})
	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	// Real encoders leave zero padding between the last frame and the audio.
	in := append(buf.Bytes(), make([]byte, 16)...)
	in = append(in, fakeAudio()...)

	got, ok := DetectMP3(in)
	if !ok {
		t.Fatal("marker in third-party tag not detected")
	}
	want := Record{Platform: "Other", Source: "bark", Timestamp: 1700000000123, UserIDHash: "h"}
	if *got != want {
		t.Fatalf("record = %+v, want %+v", *got, want)
	}
}

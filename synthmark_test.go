package synthmark

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{"PNG", FormatPNG},
		{" png ", FormatPNG},
		{"image/png", FormatPNG},
		{"mp3", FormatMP3},
		{"MP3", FormatMP3},
		{"jpeg", FormatUnknown},
		{"image/jpeg", FormatUnknown},
		{"", FormatUnknown},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if FormatPNG.String() != "png" || FormatMP3.String() != "mp3" || FormatUnknown.String() != "unknown" {
		t.Fatal("format strings drifted from their canonical values")
	}
}

func TestEmbed_DispatchesOnFormat(t *testing.T) {
	rec := Record{Platform: "MyApp", Source: "dalle", Timestamp: 7}

	png := Embed(minimalPNG(t), "image/png", rec)
	if _, ok := DetectPNG(png); !ok {
		t.Fatal("png dispatch did not mark")
	}

	mp3 := Embed(fakeAudio(), "mp3", Record{Platform: "MyApp", Source: "tts", Timestamp: 7})
	if _, ok := DetectMP3(mp3); !ok {
		t.Fatal("mp3 dispatch did not mark")
	}
}

func TestEmbed_UnknownFormatPassThrough(t *testing.T) {
	in := []byte("not a container")
	out := Embed(in, "flac", Record{Source: "x"})
	if !bytes.Equal(out, in) {
		t.Fatal("unknown format must pass the input through")
	}
	if &out[0] == &in[0] {
		t.Fatal("pass-through must return a copy, not the input slice")
	}
}

func TestDetect_SniffsContainer(t *testing.T) {
	rec := Record{Platform: "MyApp", Source: "dalle", Timestamp: 99}

	if got, ok := Detect(Embed(minimalPNG(t), "png", rec)); !ok || got.Source != "dalle" {
		t.Fatal("sniffed png detect failed")
	}
	if got, ok := Detect(Embed(fakeAudio(), "mp3", rec)); !ok || got.Source != "dalle" {
		t.Fatal("sniffed mp3 detect failed")
	}
	if _, ok := Detect([]byte("neither container")); ok {
		t.Fatal("unsupported container reported a marker")
	}
	if _, ok := Detect(nil); ok {
		t.Fatal("empty buffer reported a marker")
	}
}

func TestEmbed_GenerationPipelineScenario(t *testing.T) {
	// The shape of a typical call from an image-generation backend: only
	// source and model are known, platform and timestamp come from config
	// and the clock.
	in := minimalPNG(t)
	out := Embed(in, "png",
		Record{Source: "dalle", Model: "dall-e-3"},
		WithDefaultPlatform("MyApp"),
		WithNow(fixedClock),
	)

	got, ok := Detect(out)
	if !ok {
		t.Fatal("marker not detected")
	}
	if got.Platform != "MyApp" || got.Source != "dalle" || got.Model != "dall-e-3" {
		t.Fatalf("record = %+v", *got)
	}
	if got.Timestamp != fixedClock().UnixMilli() {
		t.Fatalf("timestamp = %d, want the injected clock value", got.Timestamp)
	}
	if got.UserIDHash != "" {
		t.Fatalf("user hash = %q, want absent", got.UserIDHash)
	}
}

func TestEmbed_LogsPassThroughCause(t *testing.T) {
	var sink bytes.Buffer
	log := zerolog.New(&sink)

	out := Embed([]byte("junk"), "wav", Record{Source: "x"}, WithEmbedLogger(log))
	if !bytes.Equal(out, []byte("junk")) {
		t.Fatal("expected pass-through")
	}
	if !strings.Contains(sink.String(), "unsupported format") {
		t.Fatalf("log output %q does not name the cause", sink.String())
	}
}

func TestDetect_LogsNotFoundCause(t *testing.T) {
	var sink bytes.Buffer
	log := zerolog.New(&sink)

	if _, ok := DetectPNG(minimalPNG(t), WithDetectLogger(log)); ok {
		t.Fatal("unmarked PNG reported a marker")
	}
	if !strings.Contains(sink.String(), "no marker") {
		t.Fatalf("log output %q does not record the miss", sink.String())
	}
}

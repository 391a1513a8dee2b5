package transcode

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// lookPathStub reports only the listed programs as installed.
func lookPathStub(installed ...string) func(string) (string, error) {
	set := make(map[string]struct{}, len(installed))
	for _, p := range installed {
		set[p] = struct{}{}
	}
	return func(file string) (string, error) {
		if _, ok := set[file]; ok {
			return "/usr/bin/" + file, nil
		}
		return "", fmt.Errorf("%s not found", file)
	}
}

func testEngine(installed ...string) *Engine {
	e := New()
	e.lookPath = lookPathStub(installed...)
	return e
}

func TestAvailableEncoderFormats(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		want      []string
	}{
		{
			name:      "nothing installed",
			installed: nil,
			want:      nil,
		},
		{
			name:      "lame only",
			installed: []string{"lame"},
			want:      []string{"mp3"},
		},
		{
			name:      "ffmpeg covers several formats",
			installed: []string{"ffmpeg", "oggenc"},
			want:      []string{"m4a", "ogg", "wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine(tt.installed...)
			got := e.AvailableEncoderFormats()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AvailableEncoderFormats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableDecoderFormats(t *testing.T) {
	e := testEngine("ffmpeg")
	got := e.AvailableDecoderFormats()
	want := []string{"m4a", "wav", "wma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableDecoderFormats() = %v, want %v", got, want)
	}
}

func TestCanEncode(t *testing.T) {
	e := testEngine("lame")
	if !e.CanEncode("mp3") {
		t.Error("CanEncode(mp3) = false with lame installed")
	}
	if !e.CanEncode("MP3") {
		t.Error("CanEncode(MP3) should be case-insensitive")
	}
	if e.CanEncode("ogg") {
		t.Error("CanEncode(ogg) = true without oggenc")
	}
}

func TestCodecForReturnsTypedError(t *testing.T) {
	e := testEngine()
	_, err := e.decoderFor("mp3")
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("decoderFor error = %T, want *Error", err)
	}
	if terr.Format != "mp3" {
		t.Errorf("Error.Format = %q, want %q", terr.Format, "mp3")
	}
}

func TestCodecExpand(t *testing.T) {
	c := Codec{Filetype: "ogg", Command: []string{"oggenc", "-b", tokenBitrate, "-o", tokenTarget, "-"}}
	got := c.expand("in.mp3", "out.ogg", "192")
	want := []string{"oggenc", "-b", "192", "-o", "out.ogg", "-"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expand() = %v, want %v", got, want)
	}
	// The template itself must stay untouched.
	if c.Command[2] != tokenBitrate {
		t.Error("expand() mutated the command template")
	}
}

func TestExtOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"song.mp3", "mp3"},
		{"song.MP3", "mp3"},
		{"dir/report.v.2.ogg", "ogg"},
		{"noext", ""},
		{"dir.d/noext", ""},
	}
	for _, tt := range tests {
		if got := extOf(tt.path); got != tt.want {
			t.Errorf("extOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

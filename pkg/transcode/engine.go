// Package transcode converts audio files between formats by piping an
// extension-matched decoder into an extension-matched encoder. Decoders and
// encoders are thin wrappers around external codec programs; a backend is
// usable only when its program is installed on PATH.
package transcode

import (
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// defaultEncoders lists the known encoder backends. Every command reads WAV
// from stdin and writes the encoded result to {target}.
var defaultEncoders = []Codec{
	{Filetype: "ogg", Command: []string{"oggenc", "-Q", "-b", tokenBitrate, "-o", tokenTarget, "-"}},
	{Filetype: "mp3", Command: []string{"lame", "--silent", "-b", tokenBitrate, "-", tokenTarget}},
	{Filetype: "opus", Command: []string{"opusenc", "--quiet", "--bitrate", tokenBitrate, "-", tokenTarget}},
	{Filetype: "aac", Command: []string{"faac", "-b", tokenBitrate, "-o", tokenTarget, "-"}},
	{Filetype: "m4a", Command: []string{"ffmpeg", "-y", "-i", "-", "-b:a", tokenBitrate + "k", tokenTarget}},
	{Filetype: "flac", Command: []string{"flac", "--silent", "--force", "-o", tokenTarget, "-"}},
	{Filetype: "wav", Command: []string{"ffmpeg", "-y", "-i", "-", "-f", "wav", tokenTarget}},
}

// defaultDecoders lists the known decoder backends. Every command reads
// {source} and writes WAV to stdout.
var defaultDecoders = []Codec{
	{Filetype: "mp3", Command: []string{"mpg123", "-q", "-w", "-", tokenSource}},
	{Filetype: "ogg", Command: []string{"oggdec", "-Q", "-o", "-", tokenSource}},
	{Filetype: "opus", Command: []string{"opusdec", "--quiet", tokenSource, "-"}},
	{Filetype: "flac", Command: []string{"flac", "--silent", "--decode", "--stdout", tokenSource}},
	{Filetype: "aac", Command: []string{"faad", "-q", "-w", tokenSource}},
	{Filetype: "m4a", Command: []string{"ffmpeg", "-i", tokenSource, "-f", "wav", "-"}},
	{Filetype: "wma", Command: []string{"ffmpeg", "-i", tokenSource, "-f", "wav", "-"}},
	{Filetype: "wav", Command: []string{"ffmpeg", "-i", tokenSource, "-f", "wav", "-"}},
}

// defaultBitrates maps target formats to the bitrate (kbps) used when the
// caller does not request one. Lossless formats have no entry; their command
// templates carry no bitrate token.
var defaultBitrates = map[string]int{
	"mp3":  192,
	"ogg":  192,
	"opus": 96,
	"aac":  160,
	"m4a":  176,
}

// Engine selects codec backends by file extension and runs conversions.
// The zero value is not usable; construct with New.
type Engine struct {
	Encoders []Codec
	Decoders []Codec

	lookPath func(file string) (string, error)
}

// New returns an Engine with the default backend catalog, checking program
// availability against PATH.
func New() *Engine {
	return &Engine{
		Encoders: defaultEncoders,
		Decoders: defaultDecoders,
		lookPath: exec.LookPath,
	}
}

// Installed reports whether the codec's external program is available.
func (e *Engine) Installed(c Codec) bool {
	_, err := e.lookPath(c.Program())
	return err == nil
}

// AvailableEncoderFormats returns the sorted set of extensions for which at
// least one encoder backend is installed.
func (e *Engine) AvailableEncoderFormats() []string {
	return e.availableFormats(e.Encoders)
}

// AvailableDecoderFormats returns the sorted set of extensions for which at
// least one decoder backend is installed.
func (e *Engine) AvailableDecoderFormats() []string {
	return e.availableFormats(e.Decoders)
}

// CanEncode reports whether an installed encoder exists for the format.
func (e *Engine) CanEncode(format string) bool {
	_, err := e.encoderFor(format)
	return err == nil
}

func (e *Engine) availableFormats(codecs []Codec) []string {
	seen := make(map[string]struct{})
	var formats []string
	for _, c := range codecs {
		if _, ok := seen[c.Filetype]; ok {
			continue
		}
		if !e.Installed(c) {
			continue
		}
		seen[c.Filetype] = struct{}{}
		formats = append(formats, c.Filetype)
	}
	sort.Strings(formats)
	return formats
}

// decoderFor returns the first installed decoder for the extension.
func (e *Engine) decoderFor(format string) (Codec, error) {
	return e.codecFor(e.Decoders, format, errNoDecoder)
}

// encoderFor returns the first installed encoder for the extension.
func (e *Engine) encoderFor(format string) (Codec, error) {
	return e.codecFor(e.Encoders, format, errNoEncoder)
}

func (e *Engine) codecFor(codecs []Codec, format string, missing func(path, format string) *Error) (Codec, error) {
	format = strings.ToLower(format)
	for _, c := range codecs {
		if c.Filetype == format && e.Installed(c) {
			return c, nil
		}
	}
	return Codec{}, missing("", format)
}

// extOf returns the lower-cased filename extension without the dot.
func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

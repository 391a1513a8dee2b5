package transcode

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// pipeEngine builds an engine whose "codecs" are plain POSIX tools, so the
// pipeline plumbing can be exercised without real audio programs.
func pipeEngine(decoder, encoder []string) *Engine {
	return &Engine{
		Decoders: []Codec{{Filetype: "src", Command: decoder}},
		Encoders: []Codec{{Filetype: "dst", Command: encoder}},
		lookPath: exec.LookPath,
	}
}

func TestTranscodePipesDecoderIntoEncoder(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.src")
	target := filepath.Join(dir, "out.dst")
	if err := os.WriteFile(source, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	e := pipeEngine(
		[]string{"cat", tokenSource},
		[]string{"cp", "/dev/stdin", tokenTarget},
	)
	if err := e.Transcode(context.Background(), source, target, 0); err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("target content = %q, want %q", got, "payload")
	}
}

func TestTranscodeFailingDecoderReturnsTypedError(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.src")
	if err := os.WriteFile(source, nil, 0644); err != nil {
		t.Fatal(err)
	}

	e := pipeEngine(
		[]string{"false"},
		[]string{"cp", "/dev/stdin", tokenTarget},
	)
	err := e.Transcode(context.Background(), source, filepath.Join(dir, "out.dst"), 0)
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Transcode() error = %T (%v), want *Error", err, err)
	}
}

func TestTranscodeCanceledContext(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.src")
	if err := os.WriteFile(source, nil, 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	e := pipeEngine(
		[]string{"sleep", "60"},
		[]string{"cp", "/dev/stdin", tokenTarget},
	)
	err := e.Transcode(ctx, source, filepath.Join(dir, "out.dst"), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Transcode() error = %v, want context.Canceled", err)
	}
}

func TestTranscodeMissingSource(t *testing.T) {
	e := pipeEngine([]string{"cat", tokenSource}, []string{"cp", "/dev/stdin", tokenTarget})
	err := e.Transcode(context.Background(), filepath.Join(t.TempDir(), "absent.src"), "out.dst", 0)
	if err == nil {
		t.Fatal("Transcode() with missing source should fail")
	}
	var terr *Error
	if errors.As(err, &terr) {
		t.Errorf("missing source should be an I/O error, got *Error: %v", err)
	}
}

func TestStreamDeliversEncodedBytes(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.src")
	if err := os.WriteFile(source, []byte("streamed"), 0644); err != nil {
		t.Fatal(err)
	}

	e := pipeEngine(
		[]string{"cat", tokenSource},
		[]string{"cat"},
	)
	rc, err := e.Stream(context.Background(), source, "dst", 0)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if string(got) != "streamed" {
		t.Errorf("stream content = %q, want %q", got, "streamed")
	}
}

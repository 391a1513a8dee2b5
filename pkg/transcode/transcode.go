package transcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Transcode converts source into target, selecting a decoder by the source
// extension and an encoder by the target extension. bitrateKbps of 0 means
// the format default. Codec problems (no backend, conversion process failure)
// are returned as *Error; filesystem problems as plain errors. A canceled
// context surfaces as the context's error.
func (e *Engine) Transcode(ctx context.Context, source, target string, bitrateKbps int) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source is a directory: %s", source)
	}

	dec, err := e.decoderFor(extOf(source))
	if err != nil {
		return err
	}
	enc, err := e.encoderFor(extOf(target))
	if err != nil {
		return err
	}

	bitrate := e.bitrateFor(extOf(target), bitrateKbps)
	decCmd := command(ctx, dec.expand(source, "", bitrate))
	encCmd := command(ctx, enc.expand(source, target, bitrate))

	if err := e.runPipeline(decCmd, encCmd); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Error{
			Path:   source,
			Format: extOf(source),
			Msg:    fmt.Sprintf("converting %s with %s|%s failed", source, dec.Program(), enc.Program()),
			Err:    err,
		}
	}
	return nil
}

// Stream converts source to the given format and returns a lazy, finite,
// non-restartable stream of encoded bytes. The encoder writes to stdout, so
// only formats whose encoder accepts "-" as target are streamable. Closing
// the reader terminates the underlying processes.
func (e *Engine) Stream(ctx context.Context, source, format string, bitrateKbps int) (io.ReadCloser, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	dec, err := e.decoderFor(extOf(source))
	if err != nil {
		return nil, err
	}
	enc, err := e.encoderFor(format)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	bitrate := e.bitrateFor(format, bitrateKbps)
	decCmd := command(ctx, dec.expand(source, "-", bitrate))
	encCmd := command(ctx, enc.expand(source, "-", bitrate))

	pr, pw, err := os.Pipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create pipe: %w", err)
	}
	decCmd.Stdout = pw
	encCmd.Stdin = pr
	out, err := encCmd.StdoutPipe()
	if err != nil {
		cancel()
		pr.Close()
		pw.Close()
		return nil, err
	}

	if err := encCmd.Start(); err != nil {
		cancel()
		pr.Close()
		pw.Close()
		return nil, &Error{Path: source, Format: format, Msg: "starting encoder", Err: err}
	}
	if err := decCmd.Start(); err != nil {
		cancel()
		pr.Close()
		pw.Close()
		_ = encCmd.Wait()
		return nil, &Error{Path: source, Format: extOf(source), Msg: "starting decoder", Err: err}
	}
	pr.Close()
	pw.Close()

	// Reap the decoder once it exits; the encoder is reaped by the stream.
	go func() { _ = decCmd.Wait() }()

	return &stream{out: out, enc: encCmd, cancel: cancel}, nil
}

// stream wraps the encoder's stdout; Close tears down both processes.
type stream struct {
	out    io.Reader
	enc    *exec.Cmd
	cancel context.CancelFunc
	done   bool
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.out.Read(p)
	if err == io.EOF && !s.done {
		s.done = true
		if werr := s.enc.Wait(); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (s *stream) Close() error {
	s.cancel()
	if !s.done {
		s.done = true
		_ = s.enc.Wait()
	}
	return nil
}

// runPipeline wires the decoder's stdout into the encoder's stdin over a
// real OS pipe, so an encoder that dies early breaks the decoder with EPIPE
// instead of deadlocking it, and runs both to completion.
func (e *Engine) runPipeline(decCmd, encCmd *exec.Cmd) error {
	var decErrBuf, encErrBuf bytes.Buffer
	decCmd.Stderr = &decErrBuf
	encCmd.Stderr = &encErrBuf

	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create pipe: %w", err)
	}
	decCmd.Stdout = pw
	encCmd.Stdin = pr

	if err := encCmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return fmt.Errorf("start %s: %w", encCmd.Args[0], err)
	}
	if err := decCmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		_ = encCmd.Wait()
		return fmt.Errorf("start %s: %w", decCmd.Args[0], err)
	}
	// The children hold their own descriptors now; the parent's copies must
	// go so the encoder sees EOF when the decoder exits.
	pr.Close()
	pw.Close()

	decErr := decCmd.Wait()
	encErr := encCmd.Wait()

	if decErr != nil {
		return processError(decCmd.Args[0], decErr, &decErrBuf)
	}
	if encErr != nil {
		return processError(encCmd.Args[0], encErr, &encErrBuf)
	}
	return nil
}

// processError folds the captured stderr into the process exit error.
func processError(program string, err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return fmt.Errorf("%s: %w", program, err)
	}
	// Keep only the last line; codec tools tend to print progress above it.
	if idx := strings.LastIndexByte(msg, '\n'); idx >= 0 {
		msg = strings.TrimSpace(msg[idx+1:])
	}
	return fmt.Errorf("%s: %w: %s", program, err, msg)
}

// bitrateFor resolves the bitrate placeholder value for a target format.
func (e *Engine) bitrateFor(format string, bitrateKbps int) string {
	if bitrateKbps <= 0 {
		bitrateKbps = defaultBitrates[format]
	}
	return strconv.Itoa(bitrateKbps)
}

func command(ctx context.Context, argv []string) *exec.Cmd {
	return exec.CommandContext(ctx, argv[0], argv[1:]...)
}

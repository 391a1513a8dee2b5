package confirm

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStdin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"affirmative", "y\n", true},
		{"affirmative with whitespace", " y \n", true},
		{"uppercase is not affirmative", "Y\n", false},
		{"negative", "n\n", false},
		{"empty line", "\n", false},
		{"yes is not the exact token", "yes\n", false},
		{"closed input", "", false},
		{"affirmative without trailing newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			gate := Stdin(strings.NewReader(tt.input), &out)
			if got := gate(); got != tt.want {
				t.Errorf("gate() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Continue? [y/n]") {
				t.Errorf("prompt not written, got %q", out.String())
			}
		})
	}
}

func TestAlways(t *testing.T) {
	if !Always()() {
		t.Error("Always() gate should confirm")
	}
}

func TestWithContextCanceledWhileBlocked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	blocked := Gate(func() bool {
		<-make(chan struct{}) // never answers
		return true
	})
	gate := WithContext(ctx, blocked)

	done := make(chan bool, 1)
	go func() { done <- gate() }()
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Error("gate confirmed after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("gate did not observe cancellation")
	}
}

func TestWithContextPassesAnswerThrough(t *testing.T) {
	gate := WithContext(context.Background(), Always())
	if !gate() {
		t.Error("gate() = false, want true")
	}
}

package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voxbridge/internal/domain"
)

func TestLocaleFor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"en":    "en-US",
		"es":    "es-ES",
		"pt":    "pt-BR",
		"zh-CN": "zh-CN",
		"zh-cn": "zh-CN",
		"ar":    "ar-SA",
		"ko":    "ko-KR",
		"sv":    DefaultLocale,
		"":      DefaultLocale,
		"??":    DefaultLocale,
	}
	for target, want := range cases {
		if got := LocaleFor(target); got != want {
			t.Fatalf("LocaleFor(%q) = %q, want %q", target, got, want)
		}
	}
}

func TestExpandArgsPlaceholders(t *testing.T) {
	t.Parallel()

	args, textInArgs := expandArgs(
		[]string{"espeak-ng", "--stdin", "-v", "{voice}", "-s", "{wpm}", "--rate={rate}"},
		domain.Utterance{Text: "hola", Locale: "es-ES", Rate: 2},
	)
	got := strings.Join(args, " ")
	if got != "espeak-ng --stdin -v es-es -s 350 --rate=2.00" {
		t.Fatalf("unexpected args: %s", got)
	}
	if textInArgs {
		t.Fatalf("expected stdin delivery")
	}

	args, textInArgs = expandArgs([]string{"say", "{text}"}, domain.Utterance{Text: "hello there"})
	if !textInArgs || args[1] != "hello there" {
		t.Fatalf("expected text argument, got %v", args)
	}
}

func TestNewExecSynthesizerRejectsEmptyCommand(t *testing.T) {
	t.Parallel()

	if _, err := NewExecSynthesizer("   "); err == nil {
		t.Fatalf("expected empty command error")
	}
	if _, err := NewExecSynthesizer(`say "unterminated`); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExecSynthesizerWritesTextToStdin(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "spoken.txt")
	script := writeScript(t, "tts.sh", "#!/usr/bin/env bash\ncat > \"$1\"\necho \"$2\" >> \"$1\"\n")
	synth, err := NewExecSynthesizer(script + " " + out + " {locale}")
	if err != nil {
		t.Fatalf("new synth failed: %v", err)
	}

	playback, err := synth.Speak(context.Background(), domain.Utterance{Text: "good morning", Locale: "en-US", Rate: 1})
	if err != nil {
		t.Fatalf("speak failed: %v", err)
	}
	if err := playback.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "good morningen-US\n" {
		t.Fatalf("unexpected spoken output: %q", string(data))
	}
}

func TestExecSynthesizerCancelStopsPlayback(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "slow.sh", "#!/usr/bin/env bash\nexec sleep 5\n")
	synth, err := NewExecSynthesizer(script)
	if err != nil {
		t.Fatalf("new synth failed: %v", err)
	}
	playback, err := synth.Speak(context.Background(), domain.Utterance{Text: "long text"})
	if err != nil {
		t.Fatalf("speak failed: %v", err)
	}

	start := time.Now()
	if err := playback.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("cancel took too long")
	}
	if err := playback.Wait(); !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
}

func TestExecSynthesizerReportsFailure(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "fail.sh", "#!/usr/bin/env bash\necho 'no voice' 1>&2\nexit 3\n")
	synth, err := NewExecSynthesizer(script)
	if err != nil {
		t.Fatalf("new synth failed: %v", err)
	}
	playback, err := synth.Speak(context.Background(), domain.Utterance{Text: "x"})
	if err != nil {
		t.Fatalf("speak failed: %v", err)
	}
	err = playback.Wait()
	if err == nil || !strings.Contains(err.Error(), "no voice") {
		t.Fatalf("expected failure with stderr detail, got %v", err)
	}
}

func writeScript(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o700); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

// ErrCanceled is returned by Playback.Wait after Cancel.
var ErrCanceled = errors.New("speech canceled")

// baseWordsPerMinute is the synthesizer speed at rate 1.0.
const baseWordsPerMinute = 175

// ExecSynthesizer speaks by running an OS text-to-speech command. The command
// may contain {voice}, {locale}, {rate}, {wpm} and {text} placeholders; without
// {text} the utterance is written to stdin.
type ExecSynthesizer struct {
	args []string
}

func NewExecSynthesizer(command string) (*ExecSynthesizer, error) {
	args, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse tts command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("tts command empty")
	}
	return &ExecSynthesizer{args: args}, nil
}

func (s *ExecSynthesizer) Speak(ctx context.Context, utterance domain.Utterance) (ports.Playback, error) {
	args, textInArgs := expandArgs(s.args, utterance)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if !textInArgs {
		cmd.Stdin = strings.NewReader(utterance.Text)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start tts command: %w", err)
	}

	p := &execPlayback{cmd: cmd, stderr: &stderr, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func expandArgs(template []string, utterance domain.Utterance) ([]string, bool) {
	rate := domain.ClampRate(utterance.Rate)
	locale := utterance.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	replacer := strings.NewReplacer(
		"{voice}", strings.ToLower(locale),
		"{locale}", locale,
		"{rate}", strconv.FormatFloat(rate, 'f', 2, 64),
		"{wpm}", strconv.Itoa(int(baseWordsPerMinute*rate)),
		"{text}", utterance.Text,
	)

	out := make([]string, len(template))
	textInArgs := false
	for i, arg := range template {
		if strings.Contains(arg, "{text}") {
			textInArgs = true
		}
		out[i] = replacer.Replace(arg)
	}
	return out, textInArgs
}

type execPlayback struct {
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	done   chan struct{}
	err    error

	cancelOnce sync.Once
	mu         sync.Mutex
	canceled   bool
}

func (p *execPlayback) Wait() error {
	<-p.done

	p.mu.Lock()
	canceled := p.canceled
	p.mu.Unlock()
	if canceled {
		return ErrCanceled
	}
	if p.err != nil {
		detail := strings.TrimSpace(p.stderr.String())
		if detail != "" {
			return fmt.Errorf("tts command failed: %w: %s", p.err, detail)
		}
		return fmt.Errorf("tts command failed: %w", p.err)
	}
	return nil
}

func (p *execPlayback) Cancel() error {
	p.cancelOnce.Do(func() {
		p.mu.Lock()
		p.canceled = true
		p.mu.Unlock()
		select {
		case <-p.done:
		default:
			if p.cmd.Process != nil {
				_ = p.cmd.Process.Kill()
			}
		}
	})
	<-p.done
	return nil
}

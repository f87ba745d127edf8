package notify

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Speech reads the message body aloud through an external text-to-speech
// command (macOS `say` or `espeak`). Voice selection is best-effort: the
// configured hint is matched as a case-insensitive substring against the
// voices the command reports, and dropped when nothing matches.
type Speech struct {
	command string
	voice   string
	rate    float64

	// listVoices is swappable in tests; the default shells out.
	listVoices func(command string) []string
}

// NewSpeech builds the speech channel. An empty command autodetects a TTS
// binary on PATH; the channel errors on every send when none is found.
func NewSpeech(command, voiceHint string, rate float64) *Speech {
	s := &Speech{command: command, voice: voiceHint, rate: rate}
	s.listVoices = queryVoices
	if s.command == "" {
		s.command = detectCommand()
	}
	return s
}

// Name implements Channel.
func (s *Speech) Name() string { return "speech" }

// Send speaks the message body.
func (s *Speech) Send(ctx context.Context, msg Message) error {
	if s.command == "" {
		return fmt.Errorf("no text-to-speech command available")
	}

	args := s.buildArgs(msg.Body)
	cmd := exec.CommandContext(ctx, s.command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", s.command, err)
	}
	return nil
}

func (s *Speech) buildArgs(text string) []string {
	var args []string

	if voice := MatchVoice(s.listVoices(s.command), s.voice); voice != "" {
		args = append(args, "-v", voice)
	}

	if s.rate > 0 {
		switch filepath.Base(s.command) {
		case "say":
			// say takes words per minute; treat the configured rate as a
			// multiplier over a 180 wpm baseline.
			args = append(args, "-r", strconv.Itoa(int(s.rate*180)))
		case "espeak", "espeak-ng":
			args = append(args, "-s", strconv.Itoa(int(s.rate*175)))
		}
	}

	return append(args, text)
}

// MatchVoice picks the first available voice containing the hint,
// case-insensitively. An empty hint or no match selects nothing.
func MatchVoice(available []string, hint string) string {
	if hint == "" {
		return ""
	}
	needle := strings.ToLower(hint)
	for _, voice := range available {
		if strings.Contains(strings.ToLower(voice), needle) {
			return voice
		}
	}
	return ""
}

func detectCommand() string {
	candidates := []string{"espeak", "espeak-ng"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"say"}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func queryVoices(command string) []string {
	if command == "" {
		return nil
	}

	var out []byte
	var err error
	switch filepath.Base(command) {
	case "say":
		out, err = exec.Command(command, "-v", "?").Output()
	case "espeak", "espeak-ng":
		out, err = exec.Command(command, "--voices").Output()
	default:
		return nil
	}
	if err != nil {
		return nil
	}

	// say lists the voice name first; espeak puts it in the fourth column.
	nameIndex := 0
	if filepath.Base(command) != "say" {
		nameIndex = 3
	}

	var voices []string
	for i, line := range strings.Split(string(out), "\n") {
		if i == 0 && nameIndex > 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > nameIndex {
			voices = append(voices, fields[nameIndex])
		}
	}
	return voices
}

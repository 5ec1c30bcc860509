// Package clipboard copies text to the system clipboard, probing clipboard
// managers, platform tools, the native API and finally OSC 52 over SSH.
package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when no backend can be used on this system.
var ErrUnavailable = errors.New("no supported clipboard system detected; try installing wl-clipboard, xclip, or a clipboard manager like copyq/clipman/cliphist")

// Backend is one way of reaching the clipboard.
type Backend struct {
	Name      string
	Available func() bool
	Write     func(text string) error
}

// Env is the part of the process environment backend detection depends on.
type Env struct {
	GOOS     string
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Run      func(name string, args []string, data string) error
	Terminal io.Writer
}

// SystemEnv returns the environment of the running process.
func SystemEnv() Env {
	return Env{
		GOOS:     runtime.GOOS,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Run:      runClipboardCommand,
		Terminal: os.Stderr,
	}
}

// Clipboard writes text through the first backend that succeeds.
type Clipboard struct {
	backends []Backend
	logger   *zap.Logger
}

// New creates a Clipboard using the backends detected for the running system.
func New(logger *zap.Logger) *Clipboard {
	return NewWithBackends(logger, DefaultBackends(SystemEnv())...)
}

// NewWithBackends creates a Clipboard trying backends in the given order.
func NewWithBackends(logger *zap.Logger, backends ...Backend) *Clipboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clipboard{backends: backends, logger: logger}
}

// WriteAll copies text to the clipboard. A failing backend falls through to the next one.
func (c *Clipboard) WriteAll(text string) error {
	var errs error
	tried := 0
	for _, b := range c.backends {
		if b.Available != nil && !b.Available() {
			continue
		}
		tried++
		if err := b.Write(text); err != nil {
			c.logger.Info("Clipboard backend failed", zap.String("backend", b.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", b.Name, err))
			continue
		}
		c.logger.Debug("Copied to clipboard", zap.String("backend", b.Name), zap.Int("bytes", len(text)))
		return nil
	}
	if tried == 0 {
		return ErrUnavailable
	}
	return errs
}

// Backends lists the names of the configured backends in probe order.
func (c *Clipboard) Backends() []string {
	names := make([]string, 0, len(c.backends))
	for _, b := range c.backends {
		names = append(names, b.Name)
	}
	return names
}

var managers = []struct {
	name string
	args []string
}{
	{"copyq", []string{"add", "-"}},
	{"clipman", []string{"add", "-"}},
	{"cliphist", []string{"store"}},
	{"gpaste-client", []string{"add"}},
	{"clipse", []string{"add"}},
}

// DefaultBackends returns the probe order for env.
func DefaultBackends(env Env) []Backend {
	var backends []Backend
	switch env.GOOS {
	case "darwin":
		backends = append(backends, commandBackend(env, "pbcopy"))
	case "windows":
		backends = append(backends, commandBackend(env, "clip"))
	default:
		for _, m := range managers {
			backends = append(backends, commandBackend(env, m.name, m.args...))
		}
		if env.Getenv("XDG_SESSION_TYPE") == "wayland" || env.Getenv("WAYLAND_DISPLAY") != "" {
			backends = append(backends, commandBackend(env, "wl-copy"))
		}
		if env.Getenv("DISPLAY") != "" {
			backends = append(backends,
				commandBackend(env, "xclip", "-selection", "clipboard"),
				commandBackend(env, "xsel", "--clipboard", "--input"),
			)
		}
		backends = append(backends, commandBackend(env, "clip.exe"))
	}

	backends = append(backends, Backend{
		Name:      "native",
		Available: func() bool { return !atotto.Unsupported },
		Write:     atotto.WriteAll,
	})

	if env.Getenv("SSH_TTY") != "" || env.Getenv("SSH_CONNECTION") != "" {
		backends = append(backends, osc52Backend(env))
	}
	return backends
}

func commandBackend(env Env, name string, args ...string) Backend {
	return Backend{
		Name: name,
		Available: func() bool {
			_, err := env.LookPath(name)
			return err == nil
		},
		Write: func(text string) error {
			return env.Run(name, args, text)
		},
	}
}

func osc52Backend(env Env) Backend {
	return Backend{
		Name:      "osc52",
		Available: func() bool { return env.Terminal != nil },
		Write: func(text string) error {
			if _, err := io.WriteString(env.Terminal, osc52Sequence(text, env.Getenv)); err != nil {
				return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
			}
			return nil
		},
	}
}

func osc52Sequence(data string, getenv func(string) string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	seq := fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
	if getenv("TMUX") != "" {
		return "\x1bPtmux;" + seq + "\x1b\\"
	}
	if strings.HasPrefix(getenv("TERM"), "screen") {
		return "\x1bP" + seq + "\x1b\\"
	}
	return seq
}

func runClipboardCommand(name string, args []string, data string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(data)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s failed: %s", name, msg)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

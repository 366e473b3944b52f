//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// binPath is set by TestMain once the app is built
var binPath string

const (
	keyEnter  = "\r"
	keyEsc    = "\x1b"
	keyCtrlC  = "\x03"
	keyDown   = "j"
	keyQuit   = "q"
	keyFilter = "f"
	keySort   = "s"
	keyMore   = "n"

	// 40 rows leave 11 feed rows of 3 lines under the chrome
	termRows = 40
	termCols = 120
)

// ansiRe strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// ringBuffer keeps the last outputSize bytes the app wrote to its terminal
type ringBuffer struct {
	mu   sync.Mutex
	data []byte
	head int
	full bool
}

const outputSize = 1 << 20

func newRingBuffer() *ringBuffer {
	return &ringBuffer{data: make([]byte, outputSize)}
}

func (r *ringBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range p {
		r.data[r.head] = b
		r.head = (r.head + 1) % len(r.data)
		if r.head == 0 {
			r.full = true
		}
	}
	return len(p), nil
}

func (r *ringBuffer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return string(r.data[:r.head])
	}
	return string(r.data[r.head:]) + string(r.data[:r.head])
}

// feedApp runs projectfeed in a PTY against a fixture workspace
type feedApp struct {
	t    *testing.T
	dir  string
	cmd  *exec.Cmd
	pty  *os.File
	out  *ringBuffer
	done chan error
}

// newFeedApp prepares an empty workspace; the app is stopped when the test ends
func newFeedApp(t *testing.T) *feedApp {
	t.Helper()
	app := &feedApp{t: t, dir: t.TempDir(), out: newRingBuffer()}
	t.Cleanup(app.stop)
	return app
}

// path returns name inside the workspace
func (a *feedApp) path(name string) string {
	return filepath.Join(a.dir, name)
}

// launch starts the binary with args in a fixed size terminal
func (a *feedApp) launch(args ...string) {
	a.t.Helper()
	a.cmd = exec.Command(binPath, args...)
	a.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+a.dir,
		"XDG_CONFIG_HOME="+a.path(".config"),
		"PROJECTFEED_E2E_TEST=1",
	)

	f, err := pty.StartWithSize(a.cmd, &pty.Winsize{Rows: termRows, Cols: termCols})
	require.NoError(a.t, err, "start projectfeed")
	a.pty = f

	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				_, _ = a.out.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	a.done = make(chan error, 1)
	go func() {
		a.done <- a.cmd.Wait()
	}()
}

// press writes each key to the terminal
func (a *feedApp) press(keys ...string) {
	a.t.Helper()
	for _, k := range keys {
		_, err := a.pty.Write([]byte(k))
		require.NoError(a.t, err, "write key %q", k)
	}
}

// pressN repeats k n times, pausing so every press is rendered
func (a *feedApp) pressN(k string, n int) {
	a.t.Helper()
	for i := 0; i < n; i++ {
		a.press(k)
		time.Sleep(15 * time.Millisecond)
	}
}

// raw returns everything written so far, escape sequences included
func (a *feedApp) raw() string {
	return a.out.String()
}

// plain returns the output without escape sequences
func (a *feedApp) plain() string {
	return ansiRe.ReplaceAllString(a.raw(), "")
}

// waitPlain polls the plain output until pred holds or timeout passes
func (a *feedApp) waitPlain(pred func(string) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if pred(a.plain()) {
			return true
		}
		if time.Now().After(deadline) {
			a.dumpTail()
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// ready waits for the marker printed right before the UI starts
func (a *feedApp) ready() bool {
	return a.waitPlain(func(s string) bool { return strings.Contains(s, "__READY__") }, 5*time.Second)
}

// see waits for text to appear anywhere in the output
func (a *feedApp) see(text string) bool {
	return a.waitPlain(func(s string) bool { return strings.Contains(s, text) }, 3*time.Second)
}

// seeAfter waits until text is drawn again after the last occurrence of
// earlier, i.e. the screen showing earlier was replaced
func (a *feedApp) seeAfter(text, earlier string) bool {
	return a.waitPlain(func(s string) bool {
		return strings.LastIndex(s, text) > strings.LastIndex(s, earlier)
	}, 3*time.Second)
}

// exited waits for the process to end
func (a *feedApp) exited(timeout time.Duration) bool {
	select {
	case err := <-a.done:
		a.t.Logf("projectfeed exited: %v", err)
		a.cmd = nil
		return true
	case <-time.After(timeout):
		return false
	}
}

// dumpTail logs the end of the plain output for failed waits
func (a *feedApp) dumpTail() {
	s := a.plain()
	if len(s) > 4096 {
		s = s[len(s)-4096:]
	}
	a.t.Logf("--- terminal tail ---\n%s", s)
}

func (a *feedApp) stop() {
	if a.pty != nil {
		_ = a.pty.Close()
		a.pty = nil
	}
	if a.cmd != nil && a.cmd.Process != nil {
		_ = a.cmd.Process.Kill()
		<-a.done
		a.cmd = nil
	}
}

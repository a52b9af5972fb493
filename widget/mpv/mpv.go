// Package mpv implements widget.Widget on top of an mpv process controlled through its JSON-IPC socket.
package mpv

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/where"
	"github.com/ytfree-cli/ytfree/widget"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
	commandQueueSize  = 64
)

// ErrClosed is returned by commands issued after Destroy.
var ErrClosed = errors.New("mpv: widget destroyed")

// Options tune the spawned process.
type Options struct {
	// Binary defaults to "mpv".
	Binary string

	// Args are appended to the built-in flags, e.g. from player.mpv_args.
	Args []string

	// Video opens a window; otherwise video output is disabled.
	Video bool
}

// MPV is an idle mpv process that media is loaded into one item at a time.
// Commands are queued to a sender goroutine, so callers never block on IPC.
type MPV struct {
	options    Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}

	commands chan []any
	events   chan widget.Event
	listener *eventListener

	mu        sync.Mutex
	state     widget.State
	destroyed bool

	eventsMu     sync.Mutex
	eventsClosed bool
}

var _ widget.Widget = (*MPV)(nil)
var _ widget.VideoToggler = (*MPV)(nil)

// New prepares a widget; Start spawns the process.
func New(options Options) *MPV {
	if options.Binary == "" {
		options.Binary = "mpv"
	}

	return &MPV{
		options:  options,
		exited:   make(chan struct{}),
		commands: make(chan []any, commandQueueSize),
		events:   make(chan widget.Event, commandQueueSize),
		state:    widget.StateUnstarted,
	}
}

// Start spawns mpv in idle mode, waits for its socket and begins observing it.
// The widget emits EventReady once observation is in place.
func (m *MPV) Start(ctx context.Context) error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Ytfree, randomBytes))
	}

	m.cmd = exec.CommandContext(ctx, m.options.Binary, m.arguments()...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = newEventListener(m.socketPath, m.handleChange, m.handleError)
	if err := m.listener.Start(); err != nil {
		_ = m.Destroy()
		return err
	}

	go m.sendLoop()
	go m.watchExit()

	m.emit(widget.Event{Kind: widget.EventReady})
	return nil
}

// arguments builds the command line. The user's mpv.conf is respected: only
// what the widget contract needs is forced.
func (m *MPV) arguments() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--keep-open=yes",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", constant.Ytfree),
	}

	if m.options.Video {
		args = append(args, "--force-window=yes")
	} else {
		args = append(args, "--vid=no", "--force-window=no")
	}

	return append(args, m.options.Args...)
}

// waitForSocket polls until the IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// watchExit closes the event stream when mpv goes away on its own, e.g. the
// user closed the window.
func (m *MPV) watchExit() {
	<-m.exited
	m.mu.Lock()
	destroyed := m.destroyed
	m.mu.Unlock()

	if !destroyed {
		log.Warnf("mpv exited unexpectedly")
		m.emit(widget.Event{Kind: widget.EventError, Code: "exited", Err: errors.New("mpv process exited")})
	}
	m.closeEvents()
}

func (m *MPV) handleChange(state widget.State) {
	m.mu.Lock()
	changed := m.state != state
	m.state = state
	m.mu.Unlock()

	if changed {
		m.emit(widget.Event{Kind: widget.EventStateChanged, State: state})
	}
}

func (m *MPV) handleError(code string) {
	m.emit(widget.Event{Kind: widget.EventError, Code: code, Err: fmt.Errorf("mpv: %s", code)})
}

func (m *MPV) emit(e widget.Event) {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	if m.eventsClosed {
		return
	}

	select {
	case m.events <- e:
	default:
		log.WithField("event", e.String()).Warnf("dropping mpv event: consumer is not keeping up")
	}
}

func (m *MPV) closeEvents() {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	if !m.eventsClosed {
		m.eventsClosed = true
		close(m.events)
	}
}

// Events streams lifecycle notifications.
func (m *MPV) Events() <-chan widget.Event {
	return m.events
}

// State is the last state derived from mpv's observed properties.
func (m *MPV) State() widget.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LoadMedia replaces whatever is loaded with key.
func (m *MPV) LoadMedia(key string) error {
	target, err := Target(key)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	return m.enqueue("loadfile", target, "replace")
}

func (m *MPV) Play() error {
	return m.enqueue("set_property", "pause", false)
}

func (m *MPV) Pause() error {
	return m.enqueue("set_property", "pause", true)
}

// Seek moves to an absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	return m.enqueue("seek", seconds, "absolute")
}

func (m *MPV) SetVolume(percent int) error {
	return m.enqueue("set_property", "volume", min(max(percent, 0), 100))
}

func (m *MPV) Mute() error {
	return m.enqueue("set_property", "mute", true)
}

func (m *MPV) Unmute() error {
	return m.enqueue("set_property", "mute", false)
}

// SetVideo switches between audio-only and windowed output for the loaded media.
func (m *MPV) SetVideo(enabled bool) error {
	if enabled {
		if err := m.enqueue("set_property", "force-window", "yes"); err != nil {
			return err
		}
		return m.enqueue("set_property", "vid", "auto")
	}

	if err := m.enqueue("set_property", "vid", "no"); err != nil {
		return err
	}
	return m.enqueue("set_property", "force-window", "no")
}

// CurrentTime queries the playback position synchronously.
func (m *MPV) CurrentTime() (float64, error) {
	return m.floatProperty("time-pos")
}

// Duration queries the media length synchronously.
func (m *MPV) Duration() (float64, error) {
	return m.floatProperty("duration")
}

func (m *MPV) enqueue(command ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed {
		return ErrClosed
	}

	select {
	case m.commands <- command:
		return nil
	default:
		return fmt.Errorf("mpv command queue full, dropping %v", command[0])
	}
}

func (m *MPV) sendLoop() {
	for {
		select {
		case <-m.exited:
			return
		case command, ok := <-m.commands:
			if !ok {
				return
			}
			if _, err := sendCommand(m.socketPath, command); err != nil {
				log.WithField("command", command[0]).Warnf("mpv command failed: %v", err)
			}
		}
	}
}

func (m *MPV) floatProperty(name string) (float64, error) {
	if m.socketPath == "" {
		return 0, ErrClosed
	}

	data, err := sendCommand(m.socketPath, []any{"get_property", name})
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// Destroy quits mpv, killing it if it does not exit in time. It is idempotent.
func (m *MPV) Destroy() error {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil
	}
	m.destroyed = true
	m.mu.Unlock()

	if m.listener != nil {
		m.listener.Stop()
	}

	if m.cmd == nil || m.cmd.Process == nil {
		m.closeEvents()
		return nil
	}

	_, _ = doSendCommand(m.socketPath, []any{"quit"})

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	m.closeEvents()
	return nil
}

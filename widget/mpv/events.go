package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/widget"
)

// observed are the properties the widget state is derived from.
var observed = []string{"pause", "eof-reached", "paused-for-cache", "idle-active"}

// properties is the last known value of every observed property.
type properties struct {
	paused    bool
	eof       bool
	buffering bool
	idle      bool

	// fresh is set between file-loaded and the first unpaused moment.
	fresh bool
}

// state derives the widget state. Precedence matters: an idle player has
// nothing loaded, and an ended file stays paused under keep-open.
func (p *properties) state() widget.State {
	switch {
	case p.idle:
		return widget.StateUnstarted
	case p.eof:
		return widget.StateEnded
	case p.buffering:
		return widget.StateBuffering
	case p.paused && p.fresh:
		return widget.StateCued
	case p.paused:
		return widget.StatePaused
	default:
		p.fresh = false
		return widget.StatePlaying
	}
}

// apply records a property change and reports whether it was an observed one.
func (p *properties) apply(name string, data any) bool {
	value, _ := data.(bool)

	switch name {
	case "pause":
		p.paused = value
	case "eof-reached":
		p.eof = value
	case "paused-for-cache":
		p.buffering = value
	case "idle-active":
		p.idle = value
	default:
		return false
	}
	return true
}

// eventListener holds a persistent connection on which the properties are
// observed, since mpv scopes observers to the connection that registered them.
type eventListener struct {
	socketPath string
	conn       net.Conn
	onState    func(widget.State)
	onError    func(code string)

	props properties

	stopCh    chan struct{}
	mu        sync.Mutex
	listening bool
}

func newEventListener(socketPath string, onState func(widget.State), onError func(string)) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		onState:    onState,
		onError:    onError,
		stopCh:     make(chan struct{}),
		props:      properties{idle: true},
	}
}

// Start connects, registers the observers and starts the read loop.
func (el *eventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, requestID.Add(1), []any{"observe_property", i + 1, name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *eventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	el.conn.Close()
	el.listening = false
}

func (el *eventListener) readLoop() {
	scanner := bufio.NewScanner(el.conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)

	for scanner.Scan() {
		el.process(scanner.Bytes())
	}

	select {
	case <-el.stopCh:
	default:
		if err := scanner.Err(); err != nil {
			log.Warnf("event listener read error: %v", err)
		}
	}
}

// process handles one line written by mpv.
func (el *eventListener) process(line []byte) {
	var event struct {
		Event     string `json:"event"`
		Name      string `json:"name"`
		Data      any    `json:"data"`
		Reason    string `json:"reason"`
		FileError string `json:"file_error"`
	}
	if err := json.Unmarshal(line, &event); err != nil || event.Event == "" {
		return
	}

	switch event.Event {
	case "property-change":
		if el.props.apply(event.Name, event.Data) {
			el.onState(el.props.state())
		}
	case "file-loaded":
		el.props.fresh = true
	case "end-file":
		if event.Reason == "error" {
			code := event.FileError
			if code == "" {
				code = "unknown error"
			}
			el.onError(code)
		}
	}
}

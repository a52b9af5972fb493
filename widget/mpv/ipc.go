package mpv

import (
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is anything mpv writes back: a reply carries request_id and error,
// an event carries event.
type ipcMessage struct {
	Event     string `json:"event"`
	RequestID int64  `json:"request_id"`
	Data      any    `json:"data"`
	Error     string `json:"error"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

var requestID atomic.Int64

// sendCommand sends a command, retrying transient connection errors.
func sendCommand(socketPath string, command []any) (any, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(socketPath, command)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// doSendCommand performs a single attempt on a fresh connection. mpv broadcasts
// events to every client, so lines are skipped until the reply to this request.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestID.Add(1)
	if err := writeCommand(conn, id, command); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	decoder := json.NewDecoder(conn)
	for {
		var msg ipcMessage
		if err := decoder.Decode(&msg); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", msg.Error)
		}

		return msg.Data, nil
	}
}

// writeCommand writes one newline-delimited command.
func writeCommand(conn net.Conn, id int64, command []any) error {
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Package open hands URLs and paths to the desktop's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	goosWindows = "windows"
	goosDarwin  = "darwin"
	goosLinux   = "linux"
	goosAndroid = "android"
)

// Start opens input without waiting. With a non-empty app the input is opened
// with that application instead of the default handler.
func Start(input, app string) error {
	cmd, err := command(runtime.GOOS, input, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, input, app string) (*exec.Cmd, error) {
	if app != "" {
		switch goos {
		case goosWindows:
			// cmd's start treats & as a separator.
			return exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(input, "&", "^&")), nil
		case goosDarwin:
			return exec.Command("open", "-a", app, input), nil
		case goosLinux:
			return exec.Command(app, input), nil
		}
	}

	switch goos {
	case goosWindows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), nil
	case goosDarwin:
		return exec.Command("open", input), nil
	case goosLinux:
		return exec.Command("xdg-open", input), nil
	case goosAndroid:
		return exec.Command("termux-open", input), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

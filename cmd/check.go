package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/style"
)

// CheckDependencies exits when mpv or yt-dlp is missing from PATH. mpv
// resolves remote media through yt-dlp, so both are needed to play anything.
func CheckDependencies() {
	for _, dep := range []string{"mpv", "yt-dlp"} {
		if _, err := exec.LookPath(dep); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install " + dep
	case "linux":
		installCmd = "sudo apt install " + dep
	case "windows":
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Danger).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Danger).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.Accent).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

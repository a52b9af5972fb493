package cmd

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	versionCmd.Flags().BoolP("json", "j", false, "Print as JSON")
}

type versionInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"built_at"`
	BuiltBy  string `json:"built_by"`
	Platform string `json:"platform"`
	Mpv      string `json:"mpv"`
	YtDlp    string `json:"yt_dlp"`
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(color.Purple),
}).Parse(`{{ accent "▇▇▇" }} {{ accent "ytfree" }} {{ bold .Version }}

  {{ faint "Revision" }}  {{ .Revision }}
  {{ faint "Built" }}     {{ .BuiltAt }} by {{ .BuiltBy }}
  {{ faint "Platform" }}  {{ .Platform }}
  {{ faint "mpv" }}       {{ .Mpv }}
  {{ faint "yt-dlp" }}    {{ .YtDlp }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version, build and player dependency information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := versionInfo{
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Mpv:      toolVersion(cmd.Context(), "mpv", "--version"),
			YtDlp:    toolVersion(cmd.Context(), "yt-dlp", "--version"),
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJson(info)
			return
		}

		defer version.Notify()
		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}

// toolVersion is the first line the tool prints for its version flag, or
// "not found" when it is missing or fails.
func toolVersion(ctx context.Context, name string, args ...string) string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "not found"
	}

	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return first
}

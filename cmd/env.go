package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/config"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are not set")
	envCmd.Flags().BoolP("json", "j", false, "Print a JSON object of variable names to values")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envNames lists every environment variable the application reads, sorted.
func envNames() []string {
	names := lo.MapToSlice(config.Default, func(_ string, f config.Field) string {
		return f.Env()
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)
	return names
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Long: `List the environment variables that override settings, with their values in this shell.
Every setting has one, see "ytfree config info" for what each does.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		values := make(map[string]string)
		var names []string
		for _, name := range envNames() {
			value, present := os.LookupEnv(name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}
			names = append(names, name)
			if present {
				values[name] = value
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJson(values)
			return
		}

		nameStyle := style.New().Bold(true).Foreground(color.Purple).Render
		for _, name := range names {
			value, ok := values[name]
			if !ok {
				cmd.Println(nameStyle(name) + "=" + style.Faint("unset"))
				continue
			}
			cmd.Println(nameStyle(name) + "=" + style.Fg(color.Green)(value))
		}
	},
}

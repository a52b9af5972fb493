package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/history"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/util"
	"github.com/ytfree-cli/ytfree/where"
)

// clearable is data the user may wipe. Targets marked disposable are caches
// that --all removes; the rest hold user data and are only removed by flag.
type clearable struct {
	label      string
	flag       string
	shorthand  string
	disposable bool
	confirm    bool
	clear      func() error
}

func removePath(path func() string) func() error {
	return func() error {
		err := util.Delete(path())
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
}

var clearables = []clearable{
	{"cache", "cache", "c", true, false, removePath(where.Cache)},
	{"search results", "results", "r", true, false, removePath(where.Results)},
	{"query suggestions", "queries", "q", true, false, removePath(where.Queries)},
	{"listening history", "history", "s", false, false, history.Clear},
	{"player state", "state", "", false, false, removePath(where.State)},
	{"playlist database", "database", "", false, true, removePath(where.Database)},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, c := range clearables {
		clearCmd.Flags().BoolP(c.flag, c.shorthand, false, "Clear the "+c.label)
	}
	clearCmd.Flags().BoolP("all", "a", false, "Clear every cache, keeping history, state and playlists")
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask before deleting playlists")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear caches and stored data",
	Example: `  ytfree clear --all
  ytfree clear --history --state`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		yes := lo.Must(cmd.Flags().GetBool("yes"))

		selected := lo.Filter(clearables, func(c clearable, _ int) bool {
			return (all && c.disposable) || lo.Must(cmd.Flags().GetBool(c.flag))
		})
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, c := range selected {
			if c.confirm && !yes && !confirmed(fmt.Sprintf("Delete the %s? Saved playlists cannot be recovered.", c.label)) {
				fmt.Println(style.Faint("Kept the " + c.label))
				continue
			}

			erase := util.PrintErasable(fmt.Sprintf("%s Clearing the %s...", icon.Get(icon.Progress), c.label))
			err := c.clear()
			erase()
			handleErr(err)

			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(c.label))
		}
	},
}

func confirmed(message string) bool {
	var ok bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false
	}
	return ok
}

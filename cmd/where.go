package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/where"
)

// location is a directory or file the application owns. Locations without a
// shorthand are hidden from the listing but can still be printed by flag.
type location struct {
	name      string
	flag      string
	shorthand string
	path      func() string
}

func (l location) hidden() bool {
	return l.shorthand == ""
}

var locations = []location{
	{"Config", "config", "c", where.Config},
	{"Sources", "sources", "s", where.Sources},
	{"Playlists", "database", "d", where.Database},
	{"Logs", "logs", "l", where.Logs},
	{"History", "history", "", where.History},
	{"State", "state", "", where.State},
	{"Cache", "cache", "", where.Cache},
	{"Temp", "temp", "", where.Temp},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.shorthand, false, "Print the "+l.name+" path only")
		if l.hidden() {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where settings, catalogs and playlists are stored",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden() })
		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(l.name), style.Fg(color.Yellow)("-"+l.shorthand))
			cmd.Println(l.path())
		}
	},
}

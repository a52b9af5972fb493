package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/history"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show, 0 for all")
	historyCmd.Flags().BoolP("json", "j", false, "Print as JSON")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played tracks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.Recent()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJson(entries)
			return
		}

		if len(entries) == 0 {
			fmt.Println(style.Faint("Nothing played yet"))
			return
		}

		for _, e := range entries {
			fmt.Printf("%s %s %s\n",
				style.Bold(e.Track.String()),
				style.Fg(color.Yellow)(util.Quantify(e.Plays, "play", "plays")),
				style.Faint(humanize.Time(e.PlayedAt)),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every played track",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Clear())
		fmt.Printf("%s History cleared\n", icon.Get(icon.Success))
	},
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/provider/custom"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("query", "q", "", "Also run a search through the script and print the results")
}

// runCmd loads a catalog script outside the sources directory, for script development.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a local catalog script",
	Long: `Load a Lua catalog script in the same environment the player uses and report errors.
With --query the script's search function is called and its results printed.`,
	Args:    cobra.ExactArgs(1),
	Example: "  ytfree run ./mycatalog.lua -q \"daft punk\"",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := custom.Load(args[0], false)
		handleErr(err)
		defer c.Close()

		q := lo.Must(cmd.Flags().GetString("query"))
		if strings.TrimSpace(q) == "" {
			return
		}

		page, err := c.Search(cmd.Context(), q, "")
		handleErr(err)

		for _, r := range page.Items {
			t := r.Track()
			fmt.Printf("%s\t%s\n", t, t.MediaKey)
		}
	},
}

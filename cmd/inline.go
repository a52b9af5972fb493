package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/inline"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/provider"
	"github.com/ytfree-cli/ytfree/query"
)

// inlineFlags registers the output flags shared by search and trending.
func inlineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	cmd.Flags().StringP("output", "o", "", "Write the output to a file instead of stdout")
	cmd.Flags().StringP("pick", "p", "", "Print a single result per catalog: first, last, exact:<title> or an index")
	cmd.Flags().BoolP("all", "a", false, "Query every registered catalog")
}

func init() {
	rootCmd.AddCommand(searchCmd)
	inlineFlags(searchCmd)

	searchCmd.Flags().String("page", "", "Page token returned as next_page by a previous search")

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("page", cobra.NoFileCompletions))
	searchCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// searchCmd searches without opening the player.
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search a catalog and print the results",
	Long: `Search one or every catalog and print the results, one per line or as JSON.

Pickers:
  first - first result
  last - last result
  exact:<title> - the result with this title, case-insensitive
  [number] - select a result by index (starting from 0)`,
	Example: `  ytfree search daft punk
  ytfree search -C spotify --json --pick first "around the world"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		options := inlineOptions(cmd)
		options.Query = strings.Join(args, " ")
		options.Page = lo.Must(cmd.Flags().GetString("page"))

		handleErr(inline.Run(cmd.Context(), options))
	},
}

func init() {
	rootCmd.AddCommand(trendingCmd)
	inlineFlags(trendingCmd)

	trendingCmd.Flags().IntP("count", "n", 0, "Number of tracks to list, defaults to catalog.trending_count")
}

// trendingCmd lists what the home screen would show.
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending tracks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		options := inlineOptions(cmd)
		options.Trending = true
		options.Count = lo.Must(cmd.Flags().GetInt("count"))
		if options.Count <= 0 {
			options.Count = viper.GetInt(key.CatalogTrendingCount)
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}

// inlineOptions reads the flags shared by search and trending.
func inlineOptions(cmd *cobra.Command) *inline.Options {
	var catalogs []catalog.Catalog
	if lo.Must(cmd.Flags().GetBool("all")) {
		for _, p := range provider.All() {
			c, err := p.CreateCatalog()
			if err != nil {
				log.Warnf("skip %s: %v", p.Name, err)
				continue
			}
			catalogs = append(catalogs, c)
		}
	} else {
		c, err := selectedCatalog()
		handleErr(err)
		catalogs = append(catalogs, c)
	}

	var out io.Writer = os.Stdout
	if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
		f, err := filesystem.API().Create(output)
		handleErr(err)
		out = f
	}

	picker := mo.None[inline.Picker]()
	if flag := lo.Must(cmd.Flags().GetString("pick")); flag != "" {
		fn, err := inline.ParsePickerFlag(flag)
		handleErr(err)
		picker = mo.Some(fn)
	}

	return &inline.Options{
		Out:      out,
		Catalogs: catalogs,
		Json:     lo.Must(cmd.Flags().GetBool("json")),
		Picker:   picker,
	}
}

func init() {
	searchCmd.AddCommand(searchSchemaCmd)
}

// searchSchemaCmd prints the JSON schema of search --json output.
var searchSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the --json output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "track", "result", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}

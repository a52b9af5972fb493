package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/internal/scraper"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/provider"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/util"
	"github.com/ytfree-cli/ytfree/where"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd manages catalogs: the built-in ones and Lua scripts.
var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"catalogs"},
	Short:   "Manage built-in catalogs and custom catalog scripts",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress header and metadata descriptions in the output")
	sourcesListCmd.Flags().BoolP("custom", "c", false, "Display only installed catalog scripts")
	sourcesListCmd.Flags().BoolP("builtin", "b", false, "Display only built-in catalogs")

	sourcesListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd prints the id of every catalog that --catalog accepts.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalogs that can be searched",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render
		h := func(s string) {
			if printHeader {
				cmd.Println(headerStyle(s))
			}
		}

		current := viper.GetString(key.CatalogDefault)
		line := func(p *provider.Provider) {
			if !printHeader {
				cmd.Println(p.ID)
				return
			}

			entry := fmt.Sprintf("%s %s", p.ID, style.Faint(p.Name))
			if p.ID == current {
				entry += " " + style.Fg(color.Green)(icon.Get(icon.Mark))
			}
			cmd.Println(entry)
		}

		printBuiltin := func() {
			h("Builtin:")
			lo.ForEach(provider.Builtins(), func(p *provider.Provider, _ int) { line(p) })
		}

		printCustom := func() {
			h("Custom:")
			lo.ForEach(provider.Customs(), func(p *provider.Provider, _ int) { line(p) })
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			printBuiltin()
		case lo.Must(cmd.Flags().GetBool("custom")):
			printCustom()
		default:
			printBuiltin()
			if printHeader {
				cmd.Println()
			}
			printCustom()
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the catalog script(s) to uninstall")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		sources, err := filesystem.API().ReadDir(where.Sources())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(sources, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if !strings.HasSuffix(name, provider.CustomProviderExtension) {
				return "", false
			}

			return util.FileStem(filepath.Base(name)), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// sourcesRemoveCmd deletes installed catalog scripts.
var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall catalog scripts",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+provider.CustomProviderExtension)
			handleErr(filesystem.API().Remove(path))
			scraper.Invalidate(path)
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesInstallCmd)
}

// sourcesInstallCmd downloads scripts from sources.repository.
var sourcesInstallCmd = &cobra.Command{
	Use:   "install <name>...",
	Short: "Install catalog scripts from the sources repository",
	Long: `Download catalog scripts by name from the repository set in sources.repository.
Installed scripts are updated in the background whenever the player starts.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			eraser := util.PrintErasable(fmt.Sprintf("%s Installing %s...", icon.Get(icon.Progress), name))
			err := provider.Install(cmd.Context(), name)
			eraser()
			handleErr(err)
			fmt.Printf("%s successfully installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesUpdateCmd)
}

var sourcesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update every installed catalog script",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eraser := util.PrintErasable(fmt.Sprintf("%s Updating...", icon.Get(icon.Progress)))
		updated, err := provider.Update(cmd.Context())
		eraser()

		for _, name := range updated {
			fmt.Printf("%s updated %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
		if len(updated) == 0 && err == nil {
			fmt.Println(style.Faint("Everything is up to date"))
		}
		handleErr(err)
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Name of the new catalog")
	sourcesGenCmd.Flags().StringP("url", "u", "", "Base URL of the API the catalog queries")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

// sourcesGenCmd scaffolds a catalog script.
var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new catalog script from a template",
	Long: `Generate a Lua catalog script with the search and trending functions stubbed out.
The script is written to the sources directory and picked up by --catalog immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name             string
			URL              string
			SearchTracksFn   string
			TrendingTracksFn string
			Author           string
		}{
			Name:             lo.Must(cmd.Flags().GetString("name")),
			URL:              lo.Must(cmd.Flags().GetString("url")),
			SearchTracksFn:   constant.SearchTracksFn,
			TrendingTracksFn: constant.TrendingTracksFn,
			Author:           author,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("source").Funcs(funcMap).Parse(constant.SourceTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+provider.CustomProviderExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		err = tmpl.Execute(f, s)
		handleErr(err)

		cmd.Println(target)
	},
}

// Package cmd implements the command-line interface for ytfree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/identity"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/provider"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/tui"
	"github.com/ytfree-cli/ytfree/util"
	"github.com/ytfree-cli/ytfree/version"
	"github.com/ytfree-cli/ytfree/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record played tracks in the listening history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringP("catalog", "C", "", "Catalog to search (youtube, spotify, local or a custom script)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("catalog", completionCatalogs))
	lo.Must0(viper.BindPFlag(key.CatalogDefault, rootCmd.PersistentFlags().Lookup("catalog")))

	rootCmd.Flags().Bool("video", false, "Start in video mode")
	rootCmd.Flags().BoolP("recent", "r", false, "Open the listening history first")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd opens the interactive player.
var rootCmd = &cobra.Command{
	Use:   constant.Ytfree,
	Short: "A terminal music player for YouTube and friends",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal music player for YouTube and friends"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		ctx := cmd.Context()

		options := tui.Options{
			History: lo.Must(cmd.Flags().GetBool("recent")),
			User:    currentUser(),
		}

		if id := viper.GetString(key.CatalogDefault); id != "" {
			c, err := provider.Catalog(id)
			handleErr(err)
			options.Catalog = c
		}

		store, err := openStore()
		if err != nil {
			log.Warnf("playlists unavailable: %v", err)
		} else {
			defer util.Ignore(store.Close)
			options.Playlists = store
		}

		e, err := newEngine(ctx, playerMode(cmd))
		handleErr(err)

		handleErr(tui.Run(ctx, e, &options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

func completionCatalogs(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(provider.All(), func(p *provider.Provider, _ int) string {
		return p.ID
	}), cobra.ShellCompDirectiveNoFileComp
}

// currentUser is the signed-in user, absent when nobody is.
func currentUser() mo.Option[identity.User] {
	user, err := identity.Current()
	if err != nil {
		log.Debugf("no signed-in user: %v", err)
		return mo.None[identity.User]()
	}
	return mo.Some(user)
}

// selectedCatalog creates the catalog chosen by --catalog or catalog.default.
func selectedCatalog() (catalog.Catalog, error) {
	id := viper.GetString(key.CatalogDefault)
	if id == "" {
		return nil, fmt.Errorf("%w: no catalog selected, pass --catalog", catalog.ErrUnknown)
	}
	return provider.Catalog(id)
}

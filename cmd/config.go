package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/config"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/where"
)

func errUnknownKey(name string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	return fmt.Errorf("unknown key %s, did you mean %s?", style.Fg(color.Red)(name), style.Fg(color.Yellow)(closest))
}

// field looks up a registered key or exits with a suggestion.
func field(name string) config.Field {
	f, ok := config.Default[name]
	if !ok {
		handleErr(errUnknownKey(name))
	}
	return f
}

// validators reject values the player would only fail on at startup.
var validators = map[string]func(any) error{
	key.PlayerBackend: func(v any) error {
		if v != "mpv" {
			return errors.New("only the mpv backend is available")
		}
		return nil
	},
	key.PlayerMode: func(v any) error {
		_, err := playback.ParsePlayerMode(v.(string))
		return err
	},
	key.PlayerDefaultVolume: func(v any) error {
		if n := v.(int); n < 0 || n > 100 {
			return fmt.Errorf("volume %d is outside 0..100", n)
		}
		return nil
	},
	key.PlayerPollInterval: func(v any) error {
		if v.(int) <= 0 {
			return errors.New("poll interval must be positive")
		}
		return nil
	},
	key.IconsVariant: func(v any) error {
		if !lo.Contains(icon.AvailableVariants(), v.(string)) {
			return fmt.Errorf("unknown icons variant %q", v)
		}
		return nil
	},
	key.LogsLevel: func(v any) error {
		_, err := logrus.ParseLevel(v.(string))
		return err
	},
}

// configFile is where "config write" puts the config.
func configFile() string {
	return filepath.Join(where.Config(), constant.Ytfree+".toml")
}

// writeConfig saves viper's values, creating the file on first use.
func writeConfig() {
	err := viper.WriteConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		err = viper.SafeWriteConfigAs(configFile())
	}
	handleErr(err)
}

// parseValue converts raw to the type of the key's default.
func parseValue(f config.Field, raw []string) (any, error) {
	var (
		v   any
		err error
	)

	switch f.Value.(type) {
	case string:
		v = raw[0]
	case int:
		v, err = strconv.Atoi(raw[0])
	case float64:
		v, err = strconv.ParseFloat(raw[0], 64)
	case bool:
		v, err = strconv.ParseBool(raw[0])
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", f.Key)
	}

	if err != nil {
		return nil, fmt.Errorf("%s expects a %s, got %q", f.Key, f.Type(), raw[0])
	}
	if validate, ok := validators[f.Key]; ok {
		if err := validate(v); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key, err)
		}
	}
	return v, nil
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Without(lo.Keys(config.Default), args...)
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func printDone(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Read and change settings stored in ytfree.toml. Every setting can also be overridden with a
YTFREE_ environment variable, see "ytfree env".`,
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:               "info [key]...",
	Short:             "Describe settings, all of them when no key is given",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if len(args) > 0 {
			fields = lo.Map(args, func(name string, _ int) config.Field { return field(name) })
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(fields[i].Pretty())
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>...",
	Short: "Change a setting",
	Long: `Change a setting and save it to ytfree.toml. List settings take every remaining argument,
e.g. ytfree config set player.mpv_args --no-video --ytdl-format=bestaudio`,
	Args: cobra.MinimumNArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completionConfigKeys(cmd, args, toComplete)
	},
	Run: func(cmd *cobra.Command, args []string) {
		f := field(args[0])

		v, err := parseValue(f, args[1:])
		handleErr(err)

		viper.Set(f.Key, v)
		writeConfig()

		printDone("%s = %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(v)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>...",
	Short:             "Print the current value of settings",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			f := field(name)
			if len(args) == 1 {
				fmt.Println(viper.Get(f.Key))
				continue
			}
			fmt.Printf("%s = %v\n", f.Key, viper.Get(f.Key))
		}
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write every setting to ytfree.toml",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()

		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(viper.WriteConfigAs(path))
		} else {
			handleErr(viper.SafeWriteConfigAs(path))
		}

		printDone("Wrote %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Delete ytfree.toml, falling back to defaults",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		printDone("Deleted %s", configFile())
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]...",
	Short:             "Restore settings to their defaults",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) > 0) {
			handleErr(errors.New("pass keys to reset or --all"))
		}

		fields := lo.Values(config.Default)
		if !all {
			fields = lo.Map(args, func(name string, _ int) config.Field { return field(name) })
		}

		for _, f := range fields {
			viper.Set(f.Key, f.Value)
		}
		writeConfig()

		if all {
			printDone("Reset every setting")
			return
		}
		for _, f := range fields {
			printDone("%s = %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(f.Value)))
		}
	},
}

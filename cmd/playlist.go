package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/catalog/spotify"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/identity"
	"github.com/ytfree-cli/ytfree/inline"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/open"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/ytfree-cli/ytfree/util"
)

func init() {
	rootCmd.AddCommand(playlistCmd)
}

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"pl"},
	Short:   "Manage saved playlists",
	Long: `Create, edit and share playlists. Editing requires being signed in, see "ytfree login".
Playlists are referenced by id or by share link.`,
}

// withStore opens the playlist database for the duration of fn.
func withStore(fn func(store *playlist.Store)) {
	store, err := openStore()
	handleErr(err)
	defer util.Ignore(store.Close)

	fn(store)
}

// resolvePlaylist finds a playlist by id, then by share link.
func resolvePlaylist(ctx context.Context, store *playlist.Store, ref string) (*playlist.Playlist, error) {
	p, err := store.Get(ctx, ref)
	if errors.Is(err, playlist.ErrNotFound) {
		return store.GetByShareLink(ctx, ref)
	}
	return p, err
}

// access is what a command needs from the signed-in user.
type access int

const (
	accessView access = iota
	accessEdit
	accessOwn
)

// authorize loads ref and checks that the current user has at least level.
func authorize(ctx context.Context, store *playlist.Store, ref string, level access) (*playlist.Playlist, identity.User, error) {
	user, err := identity.Current()
	if err != nil && level != accessView {
		return nil, identity.User{}, err
	}

	p, err := resolvePlaylist(ctx, store, ref)
	if err != nil {
		return nil, identity.User{}, err
	}

	var allowed bool
	switch level {
	case accessView:
		allowed = p.CanView(user.ID)
	case accessEdit:
		allowed = p.CanEdit(user.ID)
	case accessOwn:
		allowed = p.Owner.UserID == user.ID
	}

	if !allowed {
		return nil, identity.User{}, fmt.Errorf("%w %q", playlist.ErrForbidden, p.Name)
	}
	return p, user, nil
}

func completionPlaylists(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	user, err := identity.Current()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	store, err := openStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer util.Ignore(store.Close)

	playlists, err := store.List(cmd.Context(), user.ID)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(playlists, func(p *playlist.Playlist, _ int) string {
		return p.ID + "\t" + p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func completionFirstPlaylist(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completionPlaylists(cmd, args, toComplete)
}

func printPlaylistLine(p *playlist.Playlist) {
	visibility := style.Faint("private")
	if p.IsPublic {
		visibility = style.Fg(color.Green)("public")
	}

	fmt.Printf("%s %s %s %s\n",
		style.Fg(color.Yellow)(p.ID),
		style.Bold(p.Name),
		style.Faint(util.Quantify(len(p.Tracks), "track", "tracks")),
		visibility,
	)
}

func printJson(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	handleErr(encoder.Encode(v))
}

func init() {
	playlistCmd.AddCommand(playlistListCmd)
	playlistListCmd.Flags().BoolP("json", "j", false, "Print as JSON")
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the playlists you own or contribute to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		user, err := identity.Current()
		handleErr(err)

		withStore(func(store *playlist.Store) {
			playlists, err := store.List(cmd.Context(), user.ID)
			handleErr(err)

			if lo.Must(cmd.Flags().GetBool("json")) {
				printJson(playlists)
				return
			}

			if len(playlists) == 0 {
				fmt.Println(style.Faint("No playlists yet, create one with \"ytfree playlist create\""))
				return
			}

			for _, p := range playlists {
				printPlaylistLine(p)
			}
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCreateCmd.Flags().StringP("description", "d", "", "Playlist description")
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty playlist",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user, err := identity.Current()
		handleErr(err)

		withStore(func(store *playlist.Store) {
			p, err := store.Create(
				cmd.Context(),
				strings.Join(args, " "),
				lo.Must(cmd.Flags().GetString("description")),
				playlist.Member{UserID: user.ID, Name: user.Name, Avatar: user.Avatar},
			)
			handleErr(err)

			fmt.Printf("%s Created %s\n", icon.Get(icon.Success), style.Bold(p.Name))
			fmt.Println(p.ID)
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistShowCmd)
	playlistShowCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	playlistShowCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <playlist>",
	Short: "Show the tracks and contributors of a playlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessView)
			handleErr(err)

			if lo.Must(cmd.Flags().GetBool("json")) {
				printJson(p)
				return
			}

			printPlaylistLine(p)
			if p.Description != "" {
				fmt.Println(style.Faint(p.Description))
			}
			fmt.Printf("%s %s, %s\n",
				style.Faint("owned by"),
				p.Owner.Name,
				util.FormatSeconds(float64(p.Duration())),
			)

			for _, c := range p.Contributors {
				fmt.Printf("  %s %s %s\n", icon.Get(icon.Mark), c.Name, style.Faint(string(c.Role)))
			}

			fmt.Println()
			for i, t := range p.Tracks {
				line := fmt.Sprintf("%3d. %s %s", i+1, t.String(), style.Faint(util.FormatSeconds(float64(t.Duration))))
				if t.AddedBy != "" {
					line += style.Faint(" added by " + t.AddedBy)
				}
				fmt.Println(line)
			}
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistRenameCmd)
	playlistRenameCmd.Flags().StringP("description", "d", "", "Also replace the description")
	playlistRenameCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistRenameCmd = &cobra.Command{
	Use:   "rename <playlist> <name>",
	Short: "Rename a playlist you own",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessOwn)
			handleErr(err)

			changes := playlist.Changes{Name: mo.Some(strings.Join(args[1:], " "))}
			if cmd.Flags().Changed("description") {
				changes.Description = mo.Some(lo.Must(cmd.Flags().GetString("description")))
			}

			p, err = store.Update(cmd.Context(), p.ID, changes)
			handleErr(err)
			fmt.Printf("%s Renamed to %s\n", icon.Get(icon.Success), style.Bold(p.Name))
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	playlistDeleteCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <playlist>",
	Short: "Delete a playlist you own",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessOwn)
			handleErr(err)

			if !lo.Must(cmd.Flags().GetBool("yes")) {
				confirm := survey.Confirm{
					Message: fmt.Sprintf("Delete %s and its %s?", p.Name, util.Quantify(len(p.Tracks), "track", "tracks")),
					Default: false,
				}
				var response bool
				handleErr(survey.AskOne(&confirm, &response))
				if !response {
					return
				}
			}

			handleErr(store.Delete(cmd.Context(), p.ID))
			fmt.Printf("%s Deleted %s\n", icon.Get(icon.Success), style.Bold(p.Name))
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistAddCmd)
	playlistAddCmd.Flags().StringP("pick", "p", "", "Pick without prompting: first, last, exact:<title> or an index")
	playlistAddCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <playlist> <query>",
	Short: "Search the catalog and add a result to a playlist",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			ctx := cmd.Context()

			p, user, err := authorize(ctx, store, args[0], accessEdit)
			handleErr(err)

			c, err := selectedCatalog()
			handleErr(err)

			q := strings.Join(args[1:], " ")
			page, err := c.Search(ctx, q, "")
			handleErr(err)
			if len(page.Items) == 0 {
				handleErr(fmt.Errorf("no results for %q on %s", q, c.Name()))
			}

			picked, err := pickResult(cmd, page.Items)
			handleErr(err)

			t := picked.Track()
			t.AddedBy = user.Name

			p, err = store.AddTrack(ctx, p.ID, t)
			handleErr(err)
			fmt.Printf("%s Added %s to %s\n", icon.Get(icon.Success), style.Bold(t.String()), p.Name)
		})
	},
}

// pickResult applies --pick, or asks when the flag is empty.
func pickResult(cmd *cobra.Command, results []catalog.Result) (*catalog.Result, error) {
	if flag := lo.Must(cmd.Flags().GetString("pick")); flag != "" {
		picker, err := inline.ParsePickerFlag(flag)
		if err != nil {
			return nil, err
		}
		if r := picker(results); r != nil {
			return r, nil
		}
		return nil, fmt.Errorf("%q matched nothing", flag)
	}

	labels := lo.Map(results, func(r catalog.Result, i int) string {
		return fmt.Sprintf("%d. %s", i+1, r.Track())
	})

	var index int
	prompt := survey.Select{Message: "Add which track?", Options: labels, PageSize: 10}
	if err := survey.AskOne(&prompt, &index); err != nil {
		return nil, err
	}
	return &results[index], nil
}

func init() {
	playlistCmd.AddCommand(playlistRemoveCmd)
	playlistRemoveCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove <playlist> <position>",
	Short: "Remove the track at a position (starting from 1)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessEdit)
			handleErr(err)

			i, err := position(args[1], len(p.Tracks))
			handleErr(err)

			t := p.Tracks[i]
			_, err = store.RemoveTrack(cmd.Context(), p.ID, t.ID)
			handleErr(err)
			fmt.Printf("%s Removed %s from %s\n", icon.Get(icon.Success), style.Bold(t.String()), p.Name)
		})
	},
}

// position parses a 1-based track position into an index.
func position(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("position %d out of range, the playlist has %s", i, util.Quantify(n, "track", "tracks"))
	}
	return i - 1, nil
}

func init() {
	playlistCmd.AddCommand(playlistMoveCmd)
	playlistMoveCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistMoveCmd = &cobra.Command{
	Use:   "move <playlist> <from> <to>",
	Short: "Move a track to another position (starting from 1)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessEdit)
			handleErr(err)

			from, err := position(args[1], len(p.Tracks))
			handleErr(err)
			to, err := position(args[2], len(p.Tracks))
			handleErr(err)

			_, err = store.Move(cmd.Context(), p.ID, from, to)
			handleErr(err)
			fmt.Printf("%s Moved %s to %d\n", icon.Get(icon.Success), style.Bold(p.Tracks[from].String()), to+1)
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistSortCmd)
	playlistSortCmd.Flags().StringP("by", "b", "title", "Sort key: title, artist, duration or added")
	playlistSortCmd.Flags().BoolP("reverse", "r", false, "Sort in descending order")
	playlistSortCmd.ValidArgsFunction = completionFirstPlaylist
	lo.Must0(playlistSortCmd.RegisterFlagCompletionFunc("by", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"title", "artist", "duration", "added"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var playlistSortCmd = &cobra.Command{
	Use:   "sort <playlist>",
	Short: "Sort the tracks of a playlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		compare, err := trackOrder(lo.Must(cmd.Flags().GetString("by")))
		handleErr(err)

		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessEdit)
			handleErr(err)

			sorted := slices.Clone(p.Tracks)
			slices.SortStableFunc(sorted, compare)
			if lo.Must(cmd.Flags().GetBool("reverse")) {
				slices.Reverse(sorted)
			}

			_, err = store.Reorder(cmd.Context(), p.ID, lo.Map(sorted, func(t track.Track, _ int) string { return t.ID }))
			handleErr(err)
			fmt.Printf("%s Sorted %s\n", icon.Get(icon.Success), style.Bold(p.Name))
		})
	},
}

func trackOrder(by string) (func(a, b track.Track) int, error) {
	switch by {
	case "title":
		return func(a, b track.Track) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }, nil
	case "artist":
		return func(a, b track.Track) int { return strings.Compare(strings.ToLower(a.Artist), strings.ToLower(b.Artist)) }, nil
	case "duration":
		return func(a, b track.Track) int { return a.Duration - b.Duration }, nil
	case "added":
		return func(a, b track.Track) int { return a.AddedAt.Compare(b.AddedAt) }, nil
	}
	return nil, fmt.Errorf("unknown sort key %q", by)
}

func init() {
	playlistCmd.AddCommand(playlistShareCmd)
	playlistShareCmd.Flags().Bool("qr", false, "Print a QR code of the link")
	playlistShareCmd.Flags().String("png", "", "Write a QR code of the link to a PNG file")
	playlistShareCmd.Flags().Bool("open", false, "Open the link in the browser")
	playlistShareCmd.Flags().Bool("revoke", false, "Make the playlist private again")
	playlistShareCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistShareCmd = &cobra.Command{
	Use:   "share <playlist>",
	Short: "Make a playlist public and print its share link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			ctx := cmd.Context()

			p, _, err := authorize(ctx, store, args[0], accessOwn)
			handleErr(err)

			if lo.Must(cmd.Flags().GetBool("revoke")) {
				_, err = store.Update(ctx, p.ID, playlist.Changes{IsPublic: mo.Some(false)})
				handleErr(err)
				fmt.Printf("%s %s is private\n", icon.Get(icon.Success), style.Bold(p.Name))
				return
			}

			link, err := store.Share(ctx, p.ID, viper.GetString(key.PlaylistShareBaseURL))
			handleErr(err)

			fmt.Printf("%s %s\n", icon.Get(icon.Link), link)

			if lo.Must(cmd.Flags().GetBool("qr")) {
				qr, err := playlist.ShareQR(link)
				handleErr(err)
				fmt.Print(qr)
			}

			if path := lo.Must(cmd.Flags().GetString("png")); path != "" {
				png, err := playlist.ShareQRPNG(link, 256)
				handleErr(err)
				handleErr(filesystem.API().WriteFile(path, png, 0o644))
				fmt.Printf("%s QR code written to %s\n", icon.Get(icon.Success), path)
			}

			if lo.Must(cmd.Flags().GetBool("open")) {
				handleErr(open.Start(link, ""))
			}
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistImportCmd)
	playlistImportCmd.Flags().StringP("name", "n", "", "Name of the new playlist, defaults to the imported title")
	playlistImportCmd.Flags().IntP("limit", "l", 0, "Import at most this many tracks, 0 for all")
}

var playlistImportCmd = &cobra.Command{
	Use:   "import <spotify link>",
	Short: "Import a Spotify playlist, album or track into a new playlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		user, err := identity.Current()
		handleErr(err)

		source, err := spotify.New(
			viper.GetString(key.SpotifyClientID),
			viper.GetString(key.SpotifyClientSecret),
			viper.GetInt(key.CatalogSearchLimit),
			"",
		)
		handleErr(err)

		eraser := util.PrintErasable(fmt.Sprintf("%s Importing...", icon.Get(icon.Progress)))
		tracks, title, err := source.Import(ctx, args[0], lo.Must(cmd.Flags().GetInt("limit")))
		eraser()
		handleErr(err)

		name := lo.Must(cmd.Flags().GetString("name"))
		if name == "" {
			name = title
		}

		withStore(func(store *playlist.Store) {
			p, err := store.Create(ctx, name, "Imported from "+args[0], playlist.Member{UserID: user.ID, Name: user.Name, Avatar: user.Avatar})
			handleErr(err)

			for _, t := range tracks {
				t.AddedBy = user.Name
				p, err = store.AddTrack(ctx, p.ID, t)
				handleErr(err)
			}

			fmt.Printf("%s Imported %s into %s\n", icon.Get(icon.Success), util.Quantify(len(tracks), "track", "tracks"), style.Bold(p.Name))
			fmt.Println(p.ID)
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistCollaboratorCmd)
	playlistCollaboratorCmd.AddCommand(playlistCollaboratorAddCmd, playlistCollaboratorRoleCmd, playlistCollaboratorRemoveCmd)

	playlistCollaboratorAddCmd.Flags().StringP("name", "n", "", "Display name of the user")
	playlistCollaboratorAddCmd.Flags().StringP("role", "r", string(playlist.RoleCollaborator), "collaborator or viewer")
	lo.Must0(playlistCollaboratorAddCmd.RegisterFlagCompletionFunc("role", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(playlist.RoleCollaborator), string(playlist.RoleViewer)}, cobra.ShellCompDirectiveNoFileComp
	}))

	playlistCollaboratorAddCmd.ValidArgsFunction = completionFirstPlaylist
	playlistCollaboratorRoleCmd.ValidArgsFunction = completionFirstPlaylist
	playlistCollaboratorRemoveCmd.ValidArgsFunction = completionFirstPlaylist
}

var playlistCollaboratorCmd = &cobra.Command{
	Use:     "collaborator",
	Aliases: []string{"collab"},
	Short:   "Manage who can edit or view a playlist",
}

var playlistCollaboratorAddCmd = &cobra.Command{
	Use:   "add <playlist> <user id>",
	Short: "Grant a user a role, or change the role they have",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := playlist.ParseRole(lo.Must(cmd.Flags().GetString("role")))
		handleErr(err)

		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessOwn)
			handleErr(err)

			name := lo.Must(cmd.Flags().GetString("name"))
			if name == "" {
				name = args[1]
			}

			_, err = store.AddCollaborator(cmd.Context(), p.ID, playlist.Contributor{
				Member: playlist.Member{UserID: args[1], Name: name},
				Role:   role,
			})
			handleErr(err)
			fmt.Printf("%s %s is now a %s of %s\n", icon.Get(icon.Success), style.Bold(name), role, p.Name)
		})
	},
}

var playlistCollaboratorRoleCmd = &cobra.Command{
	Use:   "role <playlist> <user id> <collaborator|viewer>",
	Short: "Change the role of an existing contributor",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := playlist.ParseRole(args[2])
		handleErr(err)

		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessOwn)
			handleErr(err)

			_, err = store.UpdateCollaboratorRole(cmd.Context(), p.ID, args[1], role)
			handleErr(err)
			fmt.Printf("%s %s is now a %s of %s\n", icon.Get(icon.Success), args[1], role, p.Name)
		})
	},
}

var playlistCollaboratorRemoveCmd = &cobra.Command{
	Use:   "remove <playlist> <user id>",
	Short: "Revoke the role of a user",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *playlist.Store) {
			p, _, err := authorize(cmd.Context(), store, args[0], accessOwn)
			handleErr(err)

			_, err = store.RemoveCollaborator(cmd.Context(), p.ID, args[1])
			handleErr(err)
			fmt.Printf("%s Removed %s from %s\n", icon.Get(icon.Success), args[1], p.Name)
		})
	},
}

package playlist

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
	"github.com/ytfree-cli/ytfree/track"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Store persists playlists. All methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("sqlite driver: %w", err)
	}

	d, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create makes an empty private playlist owned by owner.
func (s *Store) Create(ctx context.Context, name, description string, owner Member) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("playlist name is empty")
	}

	now := s.now()
	p := &Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO playlists(id, name, description, owner_id, owner_name, owner_avatar, is_public, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		p.ID, p.Name, p.Description, owner.UserID, owner.Name, owner.Avatar, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	return p, nil
}

// Get loads a playlist with its tracks and contributors.
func (s *Store) Get(ctx context.Context, id string) (*Playlist, error) {
	return s.load(ctx, s.db, `WHERE id = ?`, id)
}

// GetByShareLink resolves a link produced by Share.
func (s *Store) GetByShareLink(ctx context.Context, link string) (*Playlist, error) {
	return s.load(ctx, s.db, `WHERE share_link = ?`, strings.TrimSpace(link))
}

// List returns the playlists userID owns or contributes to, most recently updated first.
func (s *Store) List(ctx context.Context, userID string) ([]*Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id FROM playlists
	WHERE owner_id = ?
	   OR id IN (SELECT playlist_id FROM playlist_contributors WHERE user_id = ?)
	ORDER BY updated_at DESC, name`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	playlists := make([]*Playlist, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}

	return playlists, nil
}

// Update applies the present fields of changes.
func (s *Store) Update(ctx context.Context, id string, changes Changes) (*Playlist, error) {
	return s.modify(ctx, id, func(p *Playlist) error {
		if name, ok := changes.Name.Get(); ok {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("playlist name is empty")
			}
			p.Name = name
		}
		if desc, ok := changes.Description.Get(); ok {
			p.Description = strings.TrimSpace(desc)
		}
		if public, ok := changes.IsPublic.Get(); ok {
			p.IsPublic = public
		}
		return nil
	})
}

// Delete removes a playlist and everything attached to it.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTrack appends t, stamping it with the time it was added. The first track
// also becomes the playlist thumbnail.
func (s *Store) AddTrack(ctx context.Context, id string, t track.Track) (*Playlist, error) {
	return s.modify(ctx, id, func(p *Playlist) error {
		t.AddedAt = s.now()
		p.Tracks = append(p.Tracks, t)
		if len(p.Tracks) == 1 {
			p.Thumbnail = t.Thumbnail
		}
		return nil
	})
}

// RemoveTrack drops every entry with trackID.
func (s *Store) RemoveTrack(ctx context.Context, id, trackID string) (*Playlist, error) {
	return s.modify(ctx, id, func(p *Playlist) error {
		p.Tracks = lo.Reject(p.Tracks, func(t track.Track, _ int) bool { return t.ID == trackID })
		return nil
	})
}

// Reorder puts the tracks in the order of trackIDs. Unknown ids are ignored
// and tracks missing from trackIDs are dropped.
func (s *Store) Reorder(ctx context.Context, id string, trackIDs []string) (*Playlist, error) {
	return s.modify(ctx, id, func(p *Playlist) error {
		byID := lo.KeyBy(p.Tracks, func(t track.Track) string { return t.ID })
		p.Tracks = lo.FilterMap(trackIDs, func(id string, _ int) (track.Track, bool) {
			t, ok := byID[id]
			return t, ok
		})
		return nil
	})
}

// Move moves the track at index from to index to.
func (s *Store) Move(ctx context.Context, id string, from, to int) (*Playlist, error) {
	return s.modify(ctx, id, func(p *Playlist) error {
		if from < 0 || from >= len(p.Tracks) || to < 0 || to >= len(p.Tracks) {
			return fmt.Errorf("move %d to %d: index out of range [0, %d)", from, to, len(p.Tracks))
		}

		t := p.Tracks[from]
		p.Tracks = slices.Delete(p.Tracks, from, from+1)
		p.Tracks = slices.Insert(p.Tracks, to, t)
		return nil
	})
}

// Share assigns the share link base/id and makes the playlist public.
func (s *Store) Share(ctx context.Context, id, base string) (string, error) {
	var link string
	_, err := s.modify(ctx, id, func(p *Playlist) error {
		link = ShareLink(base, p.ID)
		p.ShareLink = link
		p.IsPublic = true
		return nil
	})
	return link, err
}

// AddCollaborator grants c.Role to c.UserID, updating the role of an existing contributor.
func (s *Store) AddCollaborator(ctx context.Context, id string, c Contributor) (*Playlist, error) {
	if c.Role != RoleCollaborator && c.Role != RoleViewer {
		return nil, fmt.Errorf("cannot grant role %q", c.Role)
	}

	return s.modify(ctx, id, func(p *Playlist) error {
		if c.UserID == p.Owner.UserID {
			return errors.New("the owner cannot be a contributor")
		}

		if i := slices.IndexFunc(p.Contributors, func(x Contributor) bool { return x.UserID == c.UserID }); i >= 0 {
			p.Contributors[i].Role = c.Role
			return nil
		}

		p.Contributors = append(p.Contributors, c)
		return nil
	})
}

// RemoveCollaborator revokes every role of userID.
func (s *Store) RemoveCollaborator(ctx context.Context, id, userID string) (*Playlist, error) {
	return s.modify(ctx, id, func(p *Playlist) error {
		p.Contributors = lo.Reject(p.Contributors, func(c Contributor, _ int) bool { return c.UserID == userID })
		return nil
	})
}

// UpdateCollaboratorRole changes the role of an existing contributor.
func (s *Store) UpdateCollaboratorRole(ctx context.Context, id, userID string, role Role) (*Playlist, error) {
	if role != RoleCollaborator && role != RoleViewer {
		return nil, fmt.Errorf("cannot grant role %q", role)
	}

	return s.modify(ctx, id, func(p *Playlist) error {
		i := slices.IndexFunc(p.Contributors, func(c Contributor) bool { return c.UserID == userID })
		if i < 0 {
			return fmt.Errorf("%s is not a contributor: %w", userID, ErrNotFound)
		}
		p.Contributors[i].Role = role
		return nil
	})
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) load(ctx context.Context, q querier, where string, arg any) (*Playlist, error) {
	row := q.QueryRowContext(ctx, `
	SELECT id, name, description, thumbnail, owner_id, owner_name, owner_avatar,
	       is_public, COALESCE(share_link, ''), created_at, updated_at
	FROM playlists `+where, arg)

	var (
		p                Playlist
		public           int
		created, updated int64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Thumbnail,
		&p.Owner.UserID, &p.Owner.Name, &p.Owner.Avatar,
		&public, &p.ShareLink, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}

	p.IsPublic = public != 0
	p.CreatedAt = time.UnixMilli(created)
	p.UpdatedAt = time.UnixMilli(updated)

	if p.Tracks, err = loadTracks(ctx, q, p.ID); err != nil {
		return nil, err
	}
	if p.Contributors, err = loadContributors(ctx, q, p.ID); err != nil {
		return nil, err
	}

	return &p, nil
}

func loadTracks(ctx context.Context, q querier, id string) ([]track.Track, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT track_id, title, artist, album, duration, thumbnail, media_key, added_by, added_at
	FROM playlist_tracks WHERE playlist_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	defer rows.Close()

	var tracks []track.Track
	for rows.Next() {
		var (
			t       track.Track
			addedAt int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &t.Duration, &t.Thumbnail, &t.MediaKey, &t.AddedBy, &addedAt); err != nil {
			return nil, err
		}
		if addedAt > 0 {
			t.AddedAt = time.UnixMilli(addedAt)
		}
		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}

func loadContributors(ctx context.Context, q querier, id string) ([]Contributor, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT user_id, name, avatar, role
	FROM playlist_contributors WHERE playlist_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("load contributors: %w", err)
	}
	defer rows.Close()

	var contributors []Contributor
	for rows.Next() {
		var c Contributor
		if err := rows.Scan(&c.UserID, &c.Name, &c.Avatar, &c.Role); err != nil {
			return nil, err
		}
		contributors = append(contributors, c)
	}

	return contributors, rows.Err()
}

// modify loads id, applies fn and writes the result back in one transaction.
func (s *Store) modify(ctx context.Context, id string, fn func(p *Playlist) error) (*Playlist, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := s.load(ctx, tx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := save(ctx, tx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func save(ctx context.Context, tx *sql.Tx, p *Playlist) error {
	var share any
	if p.ShareLink != "" {
		share = p.ShareLink
	}

	_, err := tx.ExecContext(ctx, `
	UPDATE playlists
	SET name = ?, description = ?, thumbnail = ?, is_public = ?, share_link = ?, updated_at = ?
	WHERE id = ?`,
		p.Name, p.Description, p.Thumbnail, lo.Ternary(p.IsPublic, 1, 0), share, p.UpdatedAt.UnixMilli(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, p.ID); err != nil {
		return fmt.Errorf("save tracks: %w", err)
	}
	for i, t := range p.Tracks {
		var addedAt int64
		if !t.AddedAt.IsZero() {
			addedAt = t.AddedAt.UnixMilli()
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_tracks(playlist_id, position, track_id, title, artist, album, duration, thumbnail, media_key, added_by, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, t.ID, t.Title, t.Artist, t.Album, t.Duration, t.Thumbnail, t.MediaKey, t.AddedBy, addedAt,
		)
		if err != nil {
			return fmt.Errorf("save track %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_contributors WHERE playlist_id = ?`, p.ID); err != nil {
		return fmt.Errorf("save contributors: %w", err)
	}
	for _, c := range p.Contributors {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_contributors(playlist_id, user_id, name, avatar, role)
		VALUES (?, ?, ?, ?, ?)`,
			p.ID, c.UserID, c.Name, c.Avatar, string(c.Role),
		)
		if err != nil {
			return fmt.Errorf("save contributor %s: %w", c.UserID, err)
		}
	}

	return nil
}

// Package playlist stores user playlists in sqlite: their tracks, their
// contributors and the links they are shared under.
package playlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/track"
)

var (
	ErrNotFound  = errors.New("playlist not found")
	ErrForbidden = errors.New("not allowed to edit this playlist")
)

// Role is what a user may do with a playlist.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleCollaborator Role = "collaborator"
	RoleViewer       Role = "viewer"
)

// ParseRole accepts the contributor roles. The owner role cannot be granted.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCollaborator, RoleViewer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q, expected collaborator or viewer", s)
	}
}

// Member identifies a user on a playlist.
type Member struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type Contributor struct {
	Member
	Role Role `json:"role"`
}

type Playlist struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Thumbnail    string        `json:"thumbnail,omitempty"`
	Owner        Member        `json:"owner"`
	Contributors []Contributor `json:"contributors"`
	Tracks       []track.Track `json:"tracks"`
	IsPublic     bool          `json:"is_public"`
	ShareLink    string        `json:"share_link,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// RoleOf returns the role of userID, absent when the user has none.
func (p *Playlist) RoleOf(userID string) mo.Option[Role] {
	if userID == "" {
		return mo.None[Role]()
	}
	if p.Owner.UserID == userID {
		return mo.Some(RoleOwner)
	}

	c, ok := lo.Find(p.Contributors, func(c Contributor) bool { return c.UserID == userID })
	if !ok {
		return mo.None[Role]()
	}
	return mo.Some(c.Role)
}

// CanEdit reports whether userID may change the tracks of p.
func (p *Playlist) CanEdit(userID string) bool {
	role, ok := p.RoleOf(userID).Get()
	return ok && (role == RoleOwner || role == RoleCollaborator)
}

// CanView reports whether userID may read p. Public playlists are readable by anyone.
func (p *Playlist) CanView(userID string) bool {
	return p.IsPublic || p.RoleOf(userID).IsPresent()
}

// Duration is the total length of the tracks in seconds.
func (p *Playlist) Duration() int {
	return lo.SumBy(p.Tracks, func(t track.Track) int { return t.Duration })
}

// Changes is a partial update of the editable playlist fields.
type Changes struct {
	Name        mo.Option[string]
	Description mo.Option[string]
	IsPublic    mo.Option[bool]
}

package models

import (
	"fmt"
	"time"

	"bandroom/internal/shared"
)

// Visibility controls who can see a collection.
type Visibility string

const (
	VisibilityPrivate Visibility = "private" // Owner and collaborators only
	VisibilityShared  Visibility = "shared"  // Owner plus a named collaborator list
	VisibilityPublic  Visibility = "public"  // Readable by anyone; non-collaborators may request access
)

// AccessLevel describes what a given user may do with a collection.
type AccessLevel string

const (
	AccessOwner        AccessLevel = "owner"
	AccessCollaborator AccessLevel = "collaborator"
	AccessViewer       AccessLevel = "viewer"
	AccessNone         AccessLevel = "none"
)

// CollaborationRequest is a pending request by a user to join a public collection.
type CollaborationRequest struct {
	UserUID     string    `json:"user_uid"`
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	RequestedAt time.Time `json:"requested_at"`
}

// PlaylistLink references an external playlist linked into a collection.
// Position values are unique and contiguous within a collection; reordering
// rewrites all positions atomically.
type PlaylistLink struct {
	PlaylistID   string    `json:"playlist_id"`
	Name         string    `json:"name"`
	OwnerName    string    `json:"owner_name"`
	URL          string    `json:"url"`
	ImageURL     string    `json:"image_url"`
	TrackCount   int       `json:"track_count"`
	Position     int       `json:"position"`
	LinkedAt     time.Time `json:"linked_at"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// Collection is a top-level grouping of songs owned by a single user.
type Collection struct {
	ID            string                 `json:"id"`
	Sequence      int                    `json:"-"`
	OwnerUID      string                 `json:"owner_uid"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	IsPersonal    bool                   `json:"is_personal"`
	Visibility    Visibility             `json:"visibility"`
	Collaborators []string               `json:"collaborators"`
	Requests      []CollaborationRequest `json:"collaboration_requests"`
	Playlists     []PlaylistLink         `json:"linked_playlists"`
	SongCount     int                    `json:"song_count"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// NewCollection creates a collection owned by ownerUID.
func NewCollection(ownerUID, name, description string, visibility Visibility) *Collection {
	now := time.Now().UTC()
	return &Collection{
		OwnerUID:    ownerUID,
		Name:        name,
		Description: description,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPersonalCollection creates the auto-created personal collection for a user.
// Personal collections cannot be deleted or made non-private.
func NewPersonalCollection(ownerUID string) *Collection {
	c := NewCollection(ownerUID, "Personal Collection", "Your personal song collection", VisibilityPrivate)
	c.IsPersonal = true
	return c
}

// Validate checks the collection's structural invariants.
func (c *Collection) Validate() error {
	if c.OwnerUID == "" {
		return fmt.Errorf("%w: collection requires an owner", shared.ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: collection requires a name", shared.ErrInvalidInput)
	}
	switch c.Visibility {
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
	default:
		return fmt.Errorf("%w: unknown visibility %q", shared.ErrInvalidInput, c.Visibility)
	}
	if c.IsPersonal && c.Visibility != VisibilityPrivate {
		return shared.ErrPersonalLocked
	}
	for _, uid := range c.Collaborators {
		if uid == c.OwnerUID {
			return fmt.Errorf("%w: owner cannot be a collaborator", shared.ErrInvalidInput)
		}
	}
	seen := make(map[string]bool, len(c.Requests))
	for _, req := range c.Requests {
		if seen[req.UserUID] {
			return fmt.Errorf("%w: duplicate collaboration request for %s", shared.ErrInvalidInput, req.UserUID)
		}
		seen[req.UserUID] = true
	}
	for i, link := range c.Playlists {
		if link.Position != i {
			return fmt.Errorf("%w: playlist positions must be contiguous", shared.ErrInvalidInput)
		}
	}
	return nil
}

// AccessLevelFor reports what uid may do with this collection.
func (c *Collection) AccessLevelFor(uid string) AccessLevel {
	if uid == c.OwnerUID {
		return AccessOwner
	}
	for _, collab := range c.Collaborators {
		if collab == uid {
			return AccessCollaborator
		}
	}
	if c.Visibility == VisibilityPublic {
		return AccessViewer
	}
	return AccessNone
}

// CanEdit reports whether uid may mutate songs and notes in this collection.
func (c *Collection) CanEdit(uid string) bool {
	level := c.AccessLevelFor(uid)
	return level == AccessOwner || level == AccessCollaborator
}

// SetVisibility transitions the collection's visibility.
// Personal collections must stay private.
func (c *Collection) SetVisibility(v Visibility) error {
	if c.IsPersonal && v != VisibilityPrivate {
		return shared.ErrPersonalLocked
	}
	switch v {
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
		c.Visibility = v
		return nil
	default:
		return fmt.Errorf("%w: unknown visibility %q", shared.ErrInvalidInput, v)
	}
}

// AddCollaborator adds uid to the collaborator list. Adding the owner or an
// existing collaborator is rejected; personal collections cannot be shared.
func (c *Collection) AddCollaborator(uid string) error {
	if c.IsPersonal {
		return shared.ErrPersonalLocked
	}
	if uid == c.OwnerUID {
		return fmt.Errorf("%w: owner cannot be a collaborator", shared.ErrInvalidInput)
	}
	for _, collab := range c.Collaborators {
		if collab == uid {
			return shared.ErrAlreadyCollaborator
		}
	}
	c.Collaborators = append(c.Collaborators, uid)
	return nil
}

// RemoveCollaborator drops uid from the collaborator list. Removing a
// non-collaborator is a no-op.
func (c *Collection) RemoveCollaborator(uid string) {
	for i, collab := range c.Collaborators {
		if collab == uid {
			c.Collaborators = append(c.Collaborators[:i], c.Collaborators[i+1:]...)
			return
		}
	}
}

// RequestCollaboration files a pending request by uid to join this collection.
// Requests are deduplicated per requester.
func (c *Collection) RequestCollaboration(uid, email, name string, at time.Time) error {
	if c.Visibility != VisibilityPublic {
		return fmt.Errorf("%w: collection is not public", shared.ErrNoAccess)
	}
	if uid == c.OwnerUID {
		return fmt.Errorf("%w: owner cannot request collaboration", shared.ErrInvalidInput)
	}
	for _, collab := range c.Collaborators {
		if collab == uid {
			return shared.ErrAlreadyCollaborator
		}
	}
	for _, req := range c.Requests {
		if req.UserUID == uid {
			return shared.ErrAlreadyRequested
		}
	}
	c.Requests = append(c.Requests, CollaborationRequest{
		UserUID:     uid,
		UserEmail:   email,
		UserName:    name,
		RequestedAt: at,
	})
	return nil
}

// AcceptRequest promotes a pending request to collaborator status.
func (c *Collection) AcceptRequest(requesterUID string) error {
	idx := -1
	for i, req := range c.Requests {
		if req.UserUID == requesterUID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: no collaboration request from %s", shared.ErrInvalidArgument, requesterUID)
	}
	c.Requests = append(c.Requests[:idx], c.Requests[idx+1:]...)
	return c.AddCollaborator(requesterUID)
}

// DenyRequest removes a pending request. Denying a non-existent request is a
// no-op, not an error.
func (c *Collection) DenyRequest(requesterUID string) {
	for i, req := range c.Requests {
		if req.UserUID == requesterUID {
			c.Requests = append(c.Requests[:i], c.Requests[i+1:]...)
			return
		}
	}
}

// HasRequestFrom reports whether uid has a pending collaboration request.
func (c *Collection) HasRequestFrom(uid string) bool {
	for _, req := range c.Requests {
		if req.UserUID == uid {
			return true
		}
	}
	return false
}

// LinkPlaylist appends a playlist link at the next position. Linking an
// already-linked playlist updates its metadata in place.
func (c *Collection) LinkPlaylist(link PlaylistLink) {
	for i, existing := range c.Playlists {
		if existing.PlaylistID == link.PlaylistID {
			link.Position = existing.Position
			link.LinkedAt = existing.LinkedAt
			c.Playlists[i] = link
			return
		}
	}
	link.Position = len(c.Playlists)
	c.Playlists = append(c.Playlists, link)
}

// UnlinkPlaylist removes a playlist link and renumbers the remaining links so
// positions stay contiguous. Returns false if the playlist was not linked.
func (c *Collection) UnlinkPlaylist(playlistID string) bool {
	idx := -1
	for i, link := range c.Playlists {
		if link.PlaylistID == playlistID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	c.Playlists = append(c.Playlists[:idx], c.Playlists[idx+1:]...)
	for i := range c.Playlists {
		c.Playlists[i].Position = i
	}
	return true
}

// PlaylistLinkFor returns the link for playlistID, or nil when not linked.
func (c *Collection) PlaylistLinkFor(playlistID string) *PlaylistLink {
	for i := range c.Playlists {
		if c.Playlists[i].PlaylistID == playlistID {
			return &c.Playlists[i]
		}
	}
	return nil
}

// ReorderPlaylists atomically replaces the playlist order. The supplied ids
// must be a permutation of the currently linked playlist ids; otherwise no
// partial reorder state is applied.
func (c *Collection) ReorderPlaylists(playlistIDs []string) error {
	if len(playlistIDs) != len(c.Playlists) {
		return fmt.Errorf("%w: reorder must include every linked playlist", shared.ErrInvalidArgument)
	}

	byID := make(map[string]PlaylistLink, len(c.Playlists))
	for _, link := range c.Playlists {
		byID[link.PlaylistID] = link
	}

	reordered := make([]PlaylistLink, 0, len(playlistIDs))
	for i, id := range playlistIDs {
		link, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: playlist %s is not linked", shared.ErrInvalidArgument, id)
		}
		delete(byID, id)
		link.Position = i
		reordered = append(reordered, link)
	}

	c.Playlists = reordered
	return nil
}

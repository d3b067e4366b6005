// Package policy centralizes the access rules for posts and engagement.
// Everything here is a pure function of the post and the viewer so the
// same rules apply identically in list queries, detail views and writes.
package policy

import (
	"time"

	"byteandbeyond/internal/models"
)

// Viewer describes who is looking. A nil Viewer or zero ID means anonymous.
type Viewer struct {
	ID   uint
	Role string
}

func (v *Viewer) Anonymous() bool {
	return v == nil || v.ID == 0
}

func (v *Viewer) Admin() bool {
	return v != nil && v.Role == models.RoleAdmin
}

// ScheduledInFuture reports whether the post has a publish time that has
// not arrived yet. Scheduled posts behave as drafts until then.
func ScheduledInFuture(p *models.Post, now time.Time) bool {
	return p.ScheduledAt != nil && p.ScheduledAt.After(now)
}

// EffectiveVisibility is the visibility after accounting for scheduling.
func EffectiveVisibility(p *models.Post, now time.Time) string {
	if ScheduledInFuture(p, now) {
		return models.VisibilityDraft
	}
	return p.Visibility
}

// IsPubliclyListed reports whether the post appears in public feeds,
// search results and related-post lists.
func IsPubliclyListed(p *models.Post, now time.Time) bool {
	return !p.IsDeleted && EffectiveVisibility(p, now) == models.VisibilityPublic
}

// CanView reports whether the viewer may read the full post.
// Drafts and scheduled posts are owner-only. Private posts require any
// authenticated account. Owners and admins always pass.
func CanView(p *models.Post, v *Viewer, now time.Time) bool {
	if p.IsDeleted {
		return false
	}
	if !v.Anonymous() && (v.ID == p.UserID || v.Admin()) {
		return true
	}
	switch EffectiveVisibility(p, now) {
	case models.VisibilityPublic:
		return true
	case models.VisibilityPrivate:
		return !v.Anonymous()
	default:
		return false
	}
}

// PreviewOnly reports whether the viewer gets a truncated preview instead
// of the full body. Only anonymous viewers of private posts do; everyone
// else either reads in full or is refused outright.
func PreviewOnly(p *models.Post, v *Viewer, now time.Time) bool {
	return v.Anonymous() &&
		!p.IsDeleted &&
		EffectiveVisibility(p, now) == models.VisibilityPrivate
}

// CanModify reports whether the viewer may edit or delete the post.
func CanModify(p *models.Post, v *Viewer) bool {
	if v.Anonymous() {
		return false
	}
	return v.ID == p.UserID || v.Admin()
}

// CanEngage reports whether the viewer may comment or reply on the post.
// Requires full view access plus comments being enabled.
func CanEngage(p *models.Post, v *Viewer, now time.Time) bool {
	if v.Anonymous() || !p.AllowComments {
		return false
	}
	return CanView(p, v, now)
}

// CanReact reports whether the viewer may react to a target owned by
// ownerID. Authors cannot react to their own posts; reacting to one's
// own comments and replies is allowed.
func CanReact(targetType string, ownerID uint, v *Viewer) bool {
	if v.Anonymous() {
		return false
	}
	if targetType == models.TargetPost && v.ID == ownerID {
		return false
	}
	return true
}

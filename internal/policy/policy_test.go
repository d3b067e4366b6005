package policy

import (
	"testing"
	"time"

	"byteandbeyond/internal/models"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCanView(t *testing.T) {
	now := time.Now()
	owner := &Viewer{ID: 1, Role: models.RoleMember}
	member := &Viewer{ID: 2, Role: models.RoleMember}
	admin := &Viewer{ID: 3, Role: models.RoleAdmin}

	public := &models.Post{UserID: 1, Visibility: models.VisibilityPublic}
	private := &models.Post{UserID: 1, Visibility: models.VisibilityPrivate}
	draft := &models.Post{UserID: 1, Visibility: models.VisibilityDraft}

	assert.True(t, CanView(public, nil, now), "anonymous reads public")
	assert.True(t, CanView(public, member, now))

	assert.False(t, CanView(private, nil, now), "anonymous blocked from private")
	assert.True(t, CanView(private, member, now), "any member reads private")
	assert.True(t, CanView(private, owner, now))

	assert.False(t, CanView(draft, member, now), "drafts are owner-only")
	assert.False(t, CanView(draft, nil, now))
	assert.True(t, CanView(draft, owner, now))
	assert.True(t, CanView(draft, admin, now), "admin sees drafts")
}

func TestCanViewScheduled(t *testing.T) {
	now := time.Now()
	owner := &Viewer{ID: 1}
	member := &Viewer{ID: 2}

	scheduled := &models.Post{
		UserID:      1,
		Visibility:  models.VisibilityPublic,
		ScheduledAt: timePtr(now.Add(time.Hour)),
	}
	assert.False(t, CanView(scheduled, member, now), "future-scheduled behaves as draft")
	assert.False(t, IsPubliclyListed(scheduled, now))
	assert.True(t, CanView(scheduled, owner, now))

	// once the scheduled time passes it is just public
	past := &models.Post{
		UserID:      1,
		Visibility:  models.VisibilityPublic,
		ScheduledAt: timePtr(now.Add(-time.Hour)),
	}
	assert.True(t, CanView(past, nil, now))
	assert.True(t, IsPubliclyListed(past, now))
}

func TestCanViewDeleted(t *testing.T) {
	now := time.Now()
	deleted := &models.Post{UserID: 1, Visibility: models.VisibilityPublic, IsDeleted: true}
	assert.False(t, CanView(deleted, &Viewer{ID: 1}, now), "deleted hidden even from owner")
	assert.False(t, IsPubliclyListed(deleted, now))
}

func TestPreviewOnly(t *testing.T) {
	now := time.Now()
	private := &models.Post{UserID: 1, Visibility: models.VisibilityPrivate}
	public := &models.Post{UserID: 1, Visibility: models.VisibilityPublic}

	assert.True(t, PreviewOnly(private, nil, now), "anonymous gets preview of private")
	assert.False(t, PreviewOnly(private, &Viewer{ID: 2}, now), "members never get previews")
	assert.False(t, PreviewOnly(public, nil, now))
}

func TestCanModify(t *testing.T) {
	post := &models.Post{UserID: 1}
	assert.True(t, CanModify(post, &Viewer{ID: 1}))
	assert.False(t, CanModify(post, &Viewer{ID: 2}))
	assert.True(t, CanModify(post, &Viewer{ID: 2, Role: models.RoleAdmin}))
	assert.False(t, CanModify(post, nil))
}

func TestCanEngage(t *testing.T) {
	now := time.Now()
	post := &models.Post{UserID: 1, Visibility: models.VisibilityPublic, AllowComments: true}
	locked := &models.Post{UserID: 1, Visibility: models.VisibilityPublic, AllowComments: false}

	assert.True(t, CanEngage(post, &Viewer{ID: 2}, now))
	assert.False(t, CanEngage(post, nil, now), "anonymous cannot comment")
	assert.False(t, CanEngage(locked, &Viewer{ID: 2}, now), "comments disabled")
	assert.False(t, CanEngage(locked, &Viewer{ID: 1}, now), "disabled even for the owner")
}

func TestCanReact(t *testing.T) {
	author := &Viewer{ID: 1}
	other := &Viewer{ID: 2}

	assert.False(t, CanReact(models.TargetPost, 1, author), "no reacting to own post")
	assert.True(t, CanReact(models.TargetPost, 1, other))
	assert.True(t, CanReact(models.TargetComment, 1, author), "own comment is fine")
	assert.True(t, CanReact(models.TargetReply, 1, author))
	assert.False(t, CanReact(models.TargetPost, 1, nil))
}

package services

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"byteandbeyond/internal/db"
	"byteandbeyond/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFeedFiltersAndPagination(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	tech := createTestCategory(t, "Tech", "tech")

	for i := 0; i < 12; i++ {
		_, err := CreatePost(author, CreatePostInput{
			Title:      fmt.Sprintf("Tech Post %d", i),
			Content:    "body",
			Visibility: models.VisibilityPublic,
			CategoryID: &tech.ID,
			Tags:       []string{"golang"},
		})
		require.NoError(t, err)
	}
	createTestPost(t, author, "Draft Post", models.VisibilityDraft)
	createTestPost(t, author, "Private Post", models.VisibilityPrivate)

	posts, pagination, err := ListFeed(FeedOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 10)
	assert.Equal(t, int64(12), pagination.Total, "drafts and private posts excluded")
	assert.Equal(t, 2, pagination.Pages)

	posts, _, err = ListFeed(FeedOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, _, err = ListFeed(FeedOptions{CategorySlug: "tech"})
	require.NoError(t, err)
	assert.Len(t, posts, 10)

	posts, pagination, err = ListFeed(FeedOptions{CategorySlug: "nope"})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), pagination.Total)

	posts, _, err = ListFeed(FeedOptions{Tag: "golang"})
	require.NoError(t, err)
	assert.NotEmpty(t, posts)

	posts, _, err = ListFeed(FeedOptions{Search: "tech post 3"})
	require.NoError(t, err)
	assert.Len(t, posts, 1, "search is case-insensitive")
}

func TestListFeedExcludesScheduled(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	_, err := CreatePost(author, CreatePostInput{
		Title:       "Tomorrow",
		Content:     "body",
		Visibility:  models.VisibilityPublic,
		ScheduledAt: timePtr(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	posts, _, err := ListFeed(FeedOptions{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListFeedIncludesElapsedScheduled(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	tech := createTestCategory(t, "Tech", "tech")

	scheduled, err := CreatePost(author, CreatePostInput{
		Title:       "Was Scheduled",
		Content:     "body",
		Visibility:  models.VisibilityPublic,
		ScheduledAt: timePtr(time.Now().Add(time.Hour)),
		CategoryID:  &tech.ID,
	})
	require.NoError(t, err)
	require.Nil(t, scheduled.PublishedAt)

	newer, err := CreatePost(author, CreatePostInput{
		Title:      "Fresh Publish",
		Content:    "body",
		Visibility: models.VisibilityPublic,
		CategoryID: &tech.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, newer.PublishedAt)

	// The scheduled time arrives
	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.DB.Model(&models.Post{}).
		Where("id = ?", scheduled.ID).
		UpdateColumn("scheduled_at", past).Error)

	posts, pagination, err := ListFeed(FeedOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 2, "elapsed schedule makes the post listable")
	assert.Equal(t, int64(2), pagination.Total)

	// published_at stays NULL for the once-scheduled post; the schedule
	// time stands in for ordering, so it must not pin to the top
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, scheduled.ID, posts[1].ID)
	assert.Nil(t, posts[1].PublishedAt)

	related, err := GetRelatedPosts(newer.ID, 3)
	require.NoError(t, err)
	require.Len(t, related, 1, "elapsed schedule is visible to related posts too")
	assert.Equal(t, scheduled.ID, related[0].ID)
}

func TestListFeedSearchesContent(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	_, err := CreatePost(author, CreatePostInput{
		Title:      "Quiet Title",
		Content:    "A deep dive into xylophone maintenance.",
		Visibility: models.VisibilityPublic,
	})
	require.NoError(t, err)
	createTestPost(t, author, "Other Post", models.VisibilityPublic)

	posts, _, err := ListFeed(FeedOptions{Search: "XYLOPHONE"})
	require.NoError(t, err)
	require.Len(t, posts, 1, "body text is searchable, case-insensitive")
	assert.Equal(t, "Quiet Title", posts[0].Title)
}

func TestGetPostByIDAndSlug(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	post := createTestPost(t, author, "Findable Post", models.VisibilityPublic)

	byID, _, err := GetPost(strconv.Itoa(int(post.ID)), nil)
	require.NoError(t, err)
	assert.Equal(t, post.ID, byID.ID)

	bySlug, _, err := GetPost("findable-post", nil)
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)

	_, _, err = GetPost("missing-slug", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPostRecordsView(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	post := createTestPost(t, author, "Viewed", models.VisibilityPublic)

	_, _, err := GetPost(post.Slug, nil)
	require.NoError(t, err)
	_, _, err = GetPost(post.Slug, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, reloadPost(t, post.ID).ViewCount)
}

func TestGetPostPrivateAccess(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	member := createTestUser(t, "bob")
	private, err := CreatePost(author, CreatePostInput{
		Title:      "Members Only",
		Content:    strings.Repeat("secret paragraph ", 60),
		Visibility: models.VisibilityPrivate,
	})
	require.NoError(t, err)

	full, truncated, err := GetPost(private.Slug, viewerFor(member))
	require.NoError(t, err)
	assert.False(t, truncated, "members read private posts in full")
	assert.Equal(t, private.Content, full.Content)

	preview, truncated, err := GetPost(private.Slug, nil)
	require.NoError(t, err)
	assert.True(t, truncated, "anonymous gets a preview")
	assert.LessOrEqual(t, len([]rune(preview.Content)), defaultPreviewLimit+3)
}

func TestGetPostDraftHidden(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	member := createTestUser(t, "bob")
	draft := createTestPost(t, author, "Secret Draft", models.VisibilityDraft)

	_, _, err := GetPost(draft.Slug, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = GetPost(draft.Slug, viewerFor(member))
	assert.ErrorIs(t, err, ErrForbidden)

	got, _, err := GetPost(draft.Slug, viewerFor(author))
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, 0, reloadPost(t, draft.ID).ViewCount, "unlisted reads do not count views")
}

func TestListUserPosts(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	visitor := createTestUser(t, "bob")

	createTestPost(t, author, "Public One", models.VisibilityPublic)
	createTestPost(t, author, "Hidden One", models.VisibilityPrivate)
	createTestPost(t, author, "Draft One", models.VisibilityDraft)

	mine, _, err := ListUserPosts(author.ID, viewerFor(author), UserPostsOptions{})
	require.NoError(t, err)
	assert.Len(t, mine, 3, "owner sees the whole library")

	drafts, _, err := ListUserPosts(author.ID, viewerFor(author), UserPostsOptions{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Draft One", drafts[0].Title)

	hidden, _, err := ListUserPosts(author.ID, viewerFor(author), UserPostsOptions{Status: "hidden"})
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, models.VisibilityPrivate, hidden[0].Visibility)

	_, _, err = ListUserPosts(author.ID, viewerFor(author), UserPostsOptions{Status: "bogus"})
	assert.ErrorIs(t, err, ErrValidation)

	theirs, _, err := ListUserPosts(author.ID, viewerFor(visitor), UserPostsOptions{})
	require.NoError(t, err)
	assert.Len(t, theirs, 1, "visitors see only publicly listed posts")

	anon, _, err := ListUserPosts(author.ID, nil, UserPostsOptions{Status: "draft"})
	require.NoError(t, err)
	assert.Len(t, anon, 1, "status filter is ignored for non-owners")
	assert.Equal(t, "Public One", anon[0].Title)
}

func TestGetRelatedPosts(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	tech := createTestCategory(t, "Tech", "tech")
	life := createTestCategory(t, "Life", "life")

	var anchor *models.Post
	for i := 0; i < 5; i++ {
		post, err := CreatePost(author, CreatePostInput{
			Title:      fmt.Sprintf("Tech %d", i),
			Content:    "body",
			Visibility: models.VisibilityPublic,
			CategoryID: &tech.ID,
		})
		require.NoError(t, err)
		if i == 0 {
			anchor = post
		}
	}
	_, err := CreatePost(author, CreatePostInput{
		Title: "Life Post", Content: "body",
		Visibility: models.VisibilityPublic, CategoryID: &life.ID,
	})
	require.NoError(t, err)

	related, err := GetRelatedPosts(anchor.ID, 0)
	require.NoError(t, err)
	assert.Len(t, related, 3, "default cap of three")
	for _, p := range related {
		assert.NotEqual(t, anchor.ID, p.ID)
		assert.Equal(t, tech.ID, *p.CategoryID)
	}

	uncategorized := createTestPost(t, author, "Lonely", models.VisibilityPublic)
	related, err = GetRelatedPosts(uncategorized.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestGetCommentsWithIsLiked(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	reader := createTestUser(t, "bob")
	post := createTestPost(t, author, "Discussion", models.VisibilityPublic)

	first, err := CreateComment(post.ID, reader, "first", nil)
	require.NoError(t, err)
	_, err = CreateComment(post.ID, author, "second", nil)
	require.NoError(t, err)

	_, err = ToggleReaction(viewerFor(author), models.TargetComment, first.ID, models.ReactionLove)
	require.NoError(t, err)

	views, pagination, err := GetCommentsForPost(post.ID, viewerFor(author), 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(2), pagination.Total)
	assert.Equal(t, "second", views[0].Content, "newest first")

	liked := map[uint]bool{}
	for _, v := range views {
		liked[v.ID] = v.IsLiked
	}
	assert.True(t, liked[first.ID])
}

func TestGetRepliesOrdering(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	post := createTestPost(t, author, "Discussion", models.VisibilityPublic)
	reader := createTestUser(t, "bob")

	comment, err := CreateComment(post.ID, reader, "parent", nil)
	require.NoError(t, err)
	_, err = CreateReply(comment.ID, author, "one", nil)
	require.NoError(t, err)
	_, err = CreateReply(comment.ID, reader, "two", nil)
	require.NoError(t, err)

	replies, _, err := GetRepliesForComment(comment.ID, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "one", replies[0].Content, "oldest first")
}

func TestGetCommenters(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")
	post := createTestPost(t, author, "Busy Thread", models.VisibilityPublic)

	_, err := CreateComment(post.ID, bob, "one", nil)
	require.NoError(t, err)
	_, err = CreateComment(post.ID, carol, "two", nil)
	require.NoError(t, err)
	_, err = CreateComment(post.ID, bob, "three", nil)
	require.NoError(t, err)

	commenters, err := GetCommenters(post.ID, nil)
	require.NoError(t, err)
	assert.Len(t, commenters, 2, "distinct participants")
}

func TestGetMyInteractions(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	post := createTestPost(t, author, "Popular", models.VisibilityPublic)

	_, err := ToggleReaction(viewerFor(bob), models.TargetPost, post.ID, models.ReactionLove)
	require.NoError(t, err)
	_, err = CreateComment(post.ID, bob, "great read", nil)
	require.NoError(t, err)

	myComment, err := CreateComment(post.ID, author, "thanks all", nil)
	require.NoError(t, err)
	_, err = CreateReply(myComment.ID, bob, "you bet", nil)
	require.NoError(t, err)

	items, err := GetMyInteractions(viewerFor(author))
	require.NoError(t, err)
	assert.Len(t, items, 3, "own activity excluded")

	kinds := map[string]int{}
	for _, item := range items {
		kinds[item.Kind]++
		assert.Equal(t, bob.ID, item.ActorID)
	}
	assert.Equal(t, 1, kinds["reaction"])
	assert.Equal(t, 1, kinds["comment"])
	assert.Equal(t, 1, kinds["reply"])

	_, err = GetMyInteractions(nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetReactionsSummary(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")
	post := createTestPost(t, author, "Reactable", models.VisibilityPublic)

	_, err := ToggleReaction(viewerFor(bob), models.TargetPost, post.ID, models.ReactionLove)
	require.NoError(t, err)
	_, err = ToggleReaction(viewerFor(carol), models.TargetPost, post.ID, models.ReactionFunny)
	require.NoError(t, err)

	summary, err := GetReactions(models.TargetPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByType[models.ReactionLove])
	assert.Equal(t, 1, summary.ByType[models.ReactionFunny])
}

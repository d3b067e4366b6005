package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHeadlines(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("Expected apiKey=test-key, got %s", r.URL.Query().Get("apiKey"))
		}
		if r.URL.Query().Get("category") != "science" {
			t.Errorf("Expected category=science, got %s", r.URL.Query().Get("category"))
		}

		resp := map[string]interface{}{
			"status":       "ok",
			"totalResults": 1,
			"articles": []map[string]interface{}{
				{
					"source":      map[string]string{"name": "Test Wire"},
					"title":       "Big Discovery",
					"description": "Something happened",
					"url":         "https://example.com/a",
					"publishedAt": "2026-08-30T10:00:00Z",
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	os.Setenv("NEWS_API_BASE_URL", server.URL)
	os.Setenv("NEWS_API_KEY", "test-key")
	defer os.Unsetenv("NEWS_API_BASE_URL")
	defer os.Unsetenv("NEWS_API_KEY")

	// Reset the singleton so it picks up the test configuration
	newsService = nil
	s := GetNewsService()

	articles, err := s.GetHeadlines("science")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Test Wire", articles[0].Source)
	assert.Equal(t, "Big Discovery", articles[0].Title)

	// Second call is served from cache
	_, err = s.GetHeadlines("science")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetHeadlinesMockWithoutKey(t *testing.T) {
	os.Unsetenv("NEWS_API_KEY")
	newsService = nil
	s := GetNewsService()

	articles, err := s.GetHeadlines("")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Contains(t, articles[0].Title, "technology")
}

func TestGetHeadlinesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	os.Setenv("NEWS_API_BASE_URL", server.URL)
	os.Setenv("NEWS_API_KEY", "test-key")
	defer os.Unsetenv("NEWS_API_BASE_URL")
	defer os.Unsetenv("NEWS_API_KEY")

	newsService = nil
	s := GetNewsService()

	_, err := s.GetHeadlines("science")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetFeedItems(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Test Feed</title>
<item><title>Older</title><link>https://example.com/1</link><pubDate>Mon, 25 Aug 2026 08:00:00 GMT</pubDate></item>
<item><title>Newer</title><link>https://example.com/2</link><pubDate>Sat, 29 Aug 2026 08:00:00 GMT</pubDate></item>
</channel></rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))
	}))
	defer server.Close()

	os.Setenv("NEWS_RSS_FEEDS", server.URL)
	defer os.Unsetenv("NEWS_RSS_FEEDS")

	newsService = nil
	s := GetNewsService()

	articles, err := s.GetFeedItems()
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Newer", articles[0].Title, "merged newest first")
	assert.Equal(t, "Test Feed", articles[0].Source)
}

func TestReadArticleValidation(t *testing.T) {
	newsService = nil
	s := GetNewsService()

	_, err := s.ReadArticle("")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.ReadArticle("ftp://example.com/file")
	assert.ErrorIs(t, err, ErrValidation)
}

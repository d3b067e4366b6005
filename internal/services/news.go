package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"byteandbeyond/internal/utils"

	"github.com/mmcdole/gofeed"
)

const (
	newsCacheTTL    = 15 * time.Minute
	articleCacheTTL = time.Hour
	newsCacheSize   = 20
)

// NewsArticle is the normalized article shape served to clients,
// regardless of whether it came from NewsAPI, RSS or the mock source.
type NewsArticle struct {
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// newsAPIResponse mirrors the NewsAPI top-headlines payload.
type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string    `json:"author"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// NewsService proxies external news sources behind a small bounded
// cache so client traffic never hits upstream rate limits directly.
type NewsService struct {
	client  *http.Client
	parser  *gofeed.Parser
	cache   *utils.Cache
	apiKey  string
	baseURL string
}

func NewNewsService() *NewsService {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	baseURL := os.Getenv("NEWS_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}

	return &NewsService{
		client:  httpClient,
		parser:  parser,
		cache:   utils.NewCache(newsCacheSize),
		apiKey:  os.Getenv("NEWS_API_KEY"),
		baseURL: baseURL,
	}
}

var newsService *NewsService

// GetNewsService returns the shared news proxy instance.
func GetNewsService() *NewsService {
	if newsService == nil {
		newsService = NewNewsService()
	}
	return newsService
}

// GetHeadlines returns top headlines for a category, cached for 15
// minutes. Without an API key a single mock article is served so the
// frontend keeps working in dev.
func (s *NewsService) GetHeadlines(category string) ([]NewsArticle, error) {
	if category == "" {
		category = "technology"
	}
	cacheKey := "news:headlines:" + category
	if cached := s.cache.Get(cacheKey); cached != nil {
		if articles, ok := cached.([]NewsArticle); ok {
			return articles, nil
		}
	}

	if s.apiKey == "" {
		return s.mockHeadlines(category), nil
	}

	endpoint := fmt.Sprintf("%s/top-headlines?category=%s&language=en&pageSize=20&apiKey=%s",
		s.baseURL, url.QueryEscape(category), s.apiKey)
	resp, err := s.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: news upstream: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: news upstream status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse news response: %w", err)
	}

	articles := make([]NewsArticle, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, NewsArticle{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
	}

	s.cache.Set(cacheKey, articles, newsCacheTTL)
	return articles, nil
}

func (s *NewsService) mockHeadlines(category string) []NewsArticle {
	return []NewsArticle{
		{
			Source:      "Byte & Beyond",
			Title:       "Sample " + category + " headline",
			Description: "Set NEWS_API_KEY to serve live headlines. This placeholder keeps the news panel functional without one.",
			URL:         "https://example.com/news",
			PublishedAt: time.Now(),
		},
	}
}

// GetFeedItems aggregates the RSS feeds configured in NEWS_RSS_FEEDS
// (comma-separated URLs), merged newest first and cached.
func (s *NewsService) GetFeedItems() ([]NewsArticle, error) {
	cacheKey := "news:rss"
	if cached := s.cache.Get(cacheKey); cached != nil {
		if articles, ok := cached.([]NewsArticle); ok {
			return articles, nil
		}
	}

	raw := os.Getenv("NEWS_RSS_FEEDS")
	if raw == "" {
		return []NewsArticle{}, nil
	}

	var articles []NewsArticle
	for _, feedURL := range strings.Split(raw, ",") {
		feedURL = strings.TrimSpace(feedURL)
		if feedURL == "" {
			continue
		}
		feed, err := s.parser.ParseURL(feedURL)
		if err != nil {
			// One broken feed should not take down the aggregation
			continue
		}
		for _, item := range feed.Items {
			published := time.Now()
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			articles = append(articles, NewsArticle{
				Source:      feed.Title,
				Title:       item.Title,
				Description: item.Description,
				URL:         item.Link,
				PublishedAt: published,
			})
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > 50 {
		articles = articles[:50]
	}

	s.cache.Set(cacheKey, articles, newsCacheTTL)
	return articles, nil
}

// ReadArticle fetches a readable, sanitized rendition of an external
// article, cached for an hour.
func (s *NewsService) ReadArticle(articleURL string) (string, error) {
	if articleURL == "" {
		return "", fmt.Errorf("%w: url is required", ErrValidation)
	}
	parsed, err := url.Parse(articleURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: invalid url", ErrValidation)
	}

	cacheKey := "news:read:" + articleURL
	if cached := s.cache.Get(cacheKey); cached != nil {
		if content, ok := cached.(string); ok {
			return content, nil
		}
	}

	content, err := GetCrawlerService().FetchArticleContent(articleURL)
	if err != nil {
		return "", err
	}

	s.cache.Set(cacheKey, content, articleCacheTTL)
	return content, nil
}

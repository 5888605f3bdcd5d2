// Package research fetches business news to enrich decision analysis with
// current market context. Feeds are fetched concurrently with caching and
// rate limiting; every operation degrades gracefully, a failed source is
// skipped rather than failing the analysis.
package research

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/strategysim/strategysim/internal/infra"
)

// Article is one business-news item.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// FeedSource is one configured RSS feed.
type FeedSource struct {
	Name   string
	RSSURL string
}

// DefaultFeedSources lists the default business news feeds.
var DefaultFeedSources = []FeedSource{
	{Name: "Reuters Business", RSSURL: "https://feeds.reuters.com/reuters/businessNews"},
	{Name: "BBC Business", RSSURL: "https://feeds.bbci.co.uk/news/business/rss.xml"},
	{Name: "CNBC Business", RSSURL: "https://www.cnbc.com/id/10001147/device/rss/rss.html"},
}

// Defaults applied when an Options field is left zero.
const (
	DefaultCacheTTL   = 10 * time.Minute
	DefaultRatePerSec = 2 // conservative toward feed providers
)

// Options tunes a Source's fetch behavior.
type Options struct {
	// CacheTTL is how long fetched feed results are reused.
	CacheTTL time.Duration
	// RatePerSec caps outbound feed requests per second.
	RatePerSec int
}

// Source fetches and filters business news from configured RSS feeds.
type Source struct {
	sources []FeedSource
	cache   *infra.Cache[[]Article]
	limiter *infra.Throttle
	parser  *gofeed.Parser
}

// NewSource creates a news source with the default feeds and options.
func NewSource() *Source {
	return NewSourceWithOptions(DefaultFeedSources, Options{})
}

// NewSourceWithFeeds creates a news source with custom feeds and default
// options.
func NewSourceWithFeeds(sources []FeedSource) *Source {
	return NewSourceWithOptions(sources, Options{})
}

// NewSourceWithOptions creates a news source with custom feeds and fetch
// options. Zero option fields fall back to the package defaults.
func NewSourceWithOptions(sources []FeedSource, opts Options) *Source {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = DefaultRatePerSec
	}
	return &Source{
		sources: sources,
		cache:   infra.NewCache[[]Article](opts.CacheTTL),
		limiter: infra.NewThrottle(opts.RatePerSec),
		parser:  gofeed.NewParser(),
	}
}

// NewSourceFromURLs creates a news source from bare feed URLs, falling
// back to the default feeds when none are given.
func NewSourceFromURLs(urls []string, opts Options) *Source {
	if len(urls) == 0 {
		return NewSourceWithOptions(DefaultFeedSources, opts)
	}
	sources := make([]FeedSource, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, FeedSource{Name: u, RSSURL: u})
	}
	return NewSourceWithOptions(sources, opts)
}

// BusinessNews returns recent articles from all configured feeds, newest
// first. Failed feeds are skipped.
func (s *Source) BusinessNews(ctx context.Context, limit int) ([]Article, error) {
	cacheKey := fmt.Sprintf("news:business:%d", limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	results := make([][]Article, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			articles, err := s.fetchRSS(gctx, src)
			if err != nil {
				// Non-critical: skip failed sources.
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Article
	for _, articles := range results {
		all = append(all, articles...)
	}
	sortArticlesByDate(all)

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	s.cache.Set(cacheKey, all)
	return all, nil
}

// TopicNews returns articles mentioning the topic, newest first.
func (s *Source) TopicNews(ctx context.Context, topic string, limit int) ([]Article, error) {
	cacheKey := fmt.Sprintf("news:topic:%s:%d", strings.ToLower(topic), limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	all, err := s.BusinessNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	filtered := filterByTopic(all, topic)
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	s.cache.Set(cacheKey, filtered)
	return filtered, nil
}

// Headlines returns just the titles of recent topic articles, falling back
// to general business headlines when the topic yields nothing. Implements
// the agent package's Researcher interface.
func (s *Source) Headlines(ctx context.Context, topic string, limit int) ([]string, error) {
	articles, err := s.TopicNews(ctx, topic, limit)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		articles, err = s.BusinessNews(ctx, limit)
		if err != nil {
			return nil, err
		}
	}
	headlines := make([]string, 0, len(articles))
	for _, a := range articles {
		headlines = append(headlines, a.Title)
	}
	return headlines, nil
}

// --- Internal helpers ---

// fetchRSS parses one RSS feed into articles.
func (s *Source) fetchRSS(ctx context.Context, src FeedSource) ([]Article, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := Article{
			Title:   item.Title,
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// filterByTopic keeps articles whose title or summary mentions any word of
// the topic.
func filterByTopic(articles []Article, topic string) []Article {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) == 0 {
		return articles
	}
	var filtered []Article
	for _, a := range articles {
		content := strings.ToLower(a.Title + " " + a.Summary)
		for _, w := range words {
			if strings.Contains(content, w) {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered
}

func sortArticlesByDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

package datasource

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/metrics"
)

const (
	standingsDirName = "standings"
	scoresDirName    = "scores"
)

// monthPageRe matches links to the per-month schedule pages of a season,
// e.g. /leagues/NBA_2023_games-october.html
var monthPageRe = regexp.MustCompile(`href="(/leagues/NBA_\d{4}_games-[a-z]+\.html)"`)

// boxScoreRe matches links to individual box score pages,
// e.g. /boxscores/202210180BOS.html
var boxScoreRe = regexp.MustCompile(`href="(/boxscores/\d{8}0[A-Z]{3}\.html)"`)

// Fetcher downloads season schedule and box-score pages into a raw HTML
// directory. Pages already on disk are not fetched again, so a sync can
// be re-run cheaply to pick up only new games.
type Fetcher struct {
	client  *RateLimitedHTTPClient
	baseURL string
	rawDir  string
	logger  *logrus.Logger
}

// NewFetcher creates a fetcher from the data ingestion configuration
func NewFetcher(cfg *config.DataIngestionConfig, logger *logrus.Logger) (*Fetcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("data ingestion config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	clientCfg := DefaultHTTPClientConfig()
	clientCfg.RateLimit = cfg.RateLimit
	if cfg.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.MaxRetries
	}

	return &Fetcher{
		client:  NewRateLimitedHTTPClient(clientCfg, log.New(io.Discard, "", 0)),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		rawDir:  cfg.RawDir,
		logger:  logger,
	}, nil
}

// FetchSeason downloads the schedule pages for one season and the box
// score page of every game they link to.
func (f *Fetcher) FetchSeason(ctx context.Context, season int) error {
	seasonURL := fmt.Sprintf("%s/leagues/NBA_%d_games.html", f.baseURL, season)

	index, err := f.fetchPage(ctx, seasonURL)
	if err != nil {
		return fmt.Errorf("failed to fetch season index for %d: %w", season, err)
	}

	monthPaths := extractLinks(index, monthPageRe)
	if len(monthPaths) == 0 {
		return fmt.Errorf("no schedule pages found for season %d", season)
	}

	f.logger.WithFields(logrus.Fields{
		"season": season,
		"months": len(monthPaths),
	}).Info("Fetching season schedule pages")

	fetched := 0
	for _, path := range monthPaths {
		page, cached, err := f.fetchToFile(ctx, path, standingsDirName)
		if err != nil {
			return fmt.Errorf("failed to fetch schedule page %s: %w", path, err)
		}
		if !cached {
			fetched++
		}

		for _, scorePath := range extractLinks(page, boxScoreRe) {
			if _, _, err := f.fetchToFile(ctx, scorePath, scoresDirName); err != nil {
				f.logger.WithError(err).WithField("page", scorePath).Warn("Failed to fetch box score page")
			}
		}
	}

	f.logger.WithFields(logrus.Fields{
		"season":  season,
		"fetched": fetched,
		"skipped": len(monthPaths) - fetched,
	}).Info("Season schedule sync complete")
	return nil
}

// FetchSeasons downloads every configured season in order
func (f *Fetcher) FetchSeasons(ctx context.Context, seasons []int) error {
	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.FetchSeason(ctx, season); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying HTTP client
func (f *Fetcher) Close() error {
	return f.client.Close()
}

// fetchToFile downloads one page into rawDir/subdir, keyed by the last
// path segment. Returns the page body and whether it came from disk.
func (f *Fetcher) fetchToFile(ctx context.Context, path, subdir string) ([]byte, bool, error) {
	dir := filepath.Join(f.rawDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create raw dir: %w", err)
	}

	name := path[strings.LastIndex(path, "/")+1:]
	target := filepath.Join(dir, name)

	if data, err := os.ReadFile(target); err == nil {
		return data, true, nil
	}

	data, err := f.fetchPage(ctx, f.baseURL+path)
	if err != nil {
		return nil, false, err
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to save page: %w", err)
	}

	return data, false, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}

	metrics.PagesFetchedTotal.Inc()
	metrics.FetchLatency.Observe(time.Since(start).Seconds())
	return data, nil
}

// extractLinks returns the unique capture-group matches of re in page,
// preserving first-seen order.
func extractLinks(page []byte, re *regexp.Regexp) []string {
	seen := make(map[string]bool)
	var links []string
	for _, match := range re.FindAllSubmatch(page, -1) {
		link := string(match[1])
		if seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	return links
}

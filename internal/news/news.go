package news

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"

	"medtrack/internal/apperr"
	"medtrack/internal/models"
	"medtrack/pkg/logger"
)

// Service serves cached news articles and medication side-effect documents.
// Content comes from the upstream feed and is cached in redis so the mobile
// client never waits on the upstream for warm topics.
type Service struct {
	http     *resty.Client
	rdb      *redis.Client
	logger   *logger.Logger
	cacheTTL time.Duration
}

func NewService(baseURL, apiKey string, rdb *redis.Client, logger *logger.Logger, cacheTTL time.Duration) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}

	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}

	return &Service{http: client, rdb: rdb, logger: logger, cacheTTL: cacheTTL}
}

// GetArticles returns the cached article list for a topic, fetching from the
// upstream feed on a cold cache.
func (s *Service) GetArticles(ctx context.Context, topic string) ([]models.NewsArticle, error) {
	if topic == "" {
		topic = "weight-loss"
	}
	key := fmt.Sprintf("news:articles:%s", topic)

	var articles []models.NewsArticle
	if ok, err := s.cached(ctx, key, &articles); err != nil {
		return nil, err
	} else if ok {
		return articles, nil
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("topic", topic).
		SetResult(&articles).
		Get("/v1/articles")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "news feed unreachable", err)
	}
	if resp.IsError() {
		return nil, apperr.New(apperr.KindUpstreamInternal,
			fmt.Sprintf("news feed returned %s", resp.Status()))
	}

	s.cache(ctx, key, articles)
	return articles, nil
}

// GetSideEffects returns the cached side-effect document for one medication.
func (s *Service) GetSideEffects(ctx context.Context, medication string) (*models.SideEffectInfo, error) {
	if medication == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "medication name is required")
	}
	key := fmt.Sprintf("news:sideeffects:%s", medication)

	var info models.SideEffectInfo
	if ok, err := s.cached(ctx, key, &info); err != nil {
		return nil, err
	} else if ok {
		return &info, nil
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetPathParam("medication", medication).
		SetResult(&info).
		Get("/v1/medications/{medication}/side-effects")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "side-effect feed unreachable", err)
	}
	if resp.StatusCode() == 404 {
		return nil, apperr.New(apperr.KindNotFound,
			fmt.Sprintf("no side-effect document for %q", medication))
	}
	if resp.IsError() {
		return nil, apperr.New(apperr.KindUpstreamInternal,
			fmt.Sprintf("side-effect feed returned %s", resp.Status()))
	}

	s.cache(ctx, key, &info)
	return &info, nil
}

// cached loads a key into dest, reporting whether the cache was warm.
func (s *Service) cached(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, apperr.Wrap(apperr.KindDataFormat, "corrupt cache document", err)
	}
	return true, nil
}

func (s *Service) cache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warnw("failed to marshal cache document", "key", key, "error", err)
		return
	}
	if err := s.rdb.Set(ctx, key, string(raw), s.cacheTTL).Err(); err != nil {
		s.logger.Warnw("failed to write cache document", "key", key, "error", err)
	}
}

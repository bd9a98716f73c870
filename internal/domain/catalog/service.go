// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-gateway/internal/backend"
)

// Cache keys for the public catalog reads
const (
	productsCacheKey = "catalog:products"
	servicesCacheKey = "catalog:services"
)

// Service proxies the public catalog (products and repair-service
// categories) to the backend, with a short-TTL Redis cache so a kiosk
// hammering the landing page does not hammer the backend. The cache is
// optional; without Redis every read goes straight through.
type Service struct {
	client   *backend.Client
	redis    *redis.Client
	cacheTTL time.Duration
	log      *logrus.Entry
}

// NewService creates a catalog service; redisClient may be nil
func NewService(client *backend.Client, redisClient *redis.Client, cacheTTL time.Duration, log *logrus.Entry) *Service {
	return &Service{
		client:   client,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Products returns the product catalog
func (s *Service) Products(ctx context.Context) ([]backend.Product, error) {
	var products []backend.Product
	if s.readCache(ctx, productsCacheKey, &products) {
		return products, nil
	}

	products, err := s.client.Products(ctx)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, productsCacheKey, products)
	return products, nil
}

// ProductBySlug returns a single product. Detail pages are not cached:
// they are rare enough per kiosk that staleness is not worth it.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (*backend.Product, error) {
	return s.client.ProductBySlug(ctx, slug)
}

// ServiceCategories returns the repair-service categories. A backend
// failure yields an empty list rather than an error so the services
// page renders without offerings instead of breaking.
func (s *Service) ServiceCategories(ctx context.Context) []backend.ServiceCategory {
	var categories []backend.ServiceCategory
	if s.readCache(ctx, servicesCacheKey, &categories) {
		return categories
	}

	categories, err := s.client.ServiceCategories(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to fetch service categories")
		return []backend.ServiceCategory{}
	}

	s.writeCache(ctx, servicesCacheKey, categories)
	return categories
}

func (s *Service) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}

	data, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	} else if err != nil {
		s.log.WithError(err).Debug("Catalog cache read failed")
		return false
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		s.log.WithError(err).Debug("Catalog cache entry is unreadable")
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value interface{}) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.log.WithError(err).Debug("Catalog cache write failed")
	}
}

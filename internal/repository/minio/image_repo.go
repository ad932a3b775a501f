package minio

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/cfg"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// presigner — часть *minio.Client, нужная для выдачи ссылок.
type presigner interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type cachedURL struct {
	url       string
	refreshAt time.Time
}

// ImageRepo выдаёт presigned-ссылки на изображения товаров в MinIO.
// Ссылка переиспользуется до середины срока жизни, затем подписывается заново.
type ImageRepo struct {
	mc  presigner
	cfg *cfg.MinIOCfg
	now func() time.Time

	mu    sync.Mutex
	cache map[string]cachedURL
}

func NewImageRepo(mc presigner, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:    mc,
		cfg:   cfg,
		now:   time.Now,
		cache: make(map[string]cachedURL),
	}
}

func (i *ImageRepo) PresignedURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	now := i.now()
	i.mu.Lock()
	if c, ok := i.cache[key]; ok && now.Before(c.refreshAt) {
		i.mu.Unlock()
		return c.url, nil
	}
	i.mu.Unlock()

	u, err := i.mc.PresignedGetObject(ctx, i.cfg.BucketName, key, i.cfg.PresignTTL, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	i.mu.Lock()
	i.cache[key] = cachedURL{url: u.String(), refreshAt: now.Add(i.cfg.PresignTTL / 2)}
	i.mu.Unlock()

	return u.String(), nil
}

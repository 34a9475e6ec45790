package settings

import (
	"context"
	"log/slog"
	"strconv"

	"aetherpix/internal/config"
	"aetherpix/internal/core/port"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	KeyAllowEveryoneUpload = "allow_everyone_upload"
	KeyUploadMaxSizeMB     = "upload_max_size_mb"
)

// Provider reads settings from the repository through an expiring cache. Missing or
// unreadable values fall back to configuration defaults.
type Provider struct {
	repo     port.SettingsRepository
	cache    *expirable.LRU[string, string]
	defaults Defaults
	logger   *slog.Logger
}

// Defaults are the values used when a setting is not stored
type Defaults struct {
	AllowEveryoneUpload bool
	MaxUploadSizeBytes  int64
}

var _ port.SettingsProvider = (*Provider)(nil)

// NewProvider returns Provider
func NewProvider(repo port.SettingsRepository, cfg config.SettingsConfig, defaults Defaults, logger *slog.Logger) *Provider {
	size := cfg.CacheSize
	if size <= 0 {
		size = 64
	}
	return &Provider{
		repo:     repo,
		cache:    expirable.NewLRU[string, string](size, nil, cfg.CacheTTL),
		defaults: defaults,
		logger:   logger,
	}
}

// AllowEveryoneUpload reports whether anonymous callers may upload
func (p *Provider) AllowEveryoneUpload(ctx context.Context) bool {
	raw, ok := p.lookup(ctx, KeyAllowEveryoneUpload)
	if !ok {
		return p.defaults.AllowEveryoneUpload
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.logger.Warn("invalid setting", slog.String("key", KeyAllowEveryoneUpload), slog.String("value", raw))
		return p.defaults.AllowEveryoneUpload
	}
	return v
}

// MaxUploadSize is the upload limit in bytes
func (p *Provider) MaxUploadSize(ctx context.Context) int64 {
	raw, ok := p.lookup(ctx, KeyUploadMaxSizeMB)
	if !ok {
		return p.defaults.MaxUploadSizeBytes
	}
	mb, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || mb <= 0 {
		p.logger.Warn("invalid setting", slog.String("key", KeyUploadMaxSizeMB), slog.String("value", raw))
		return p.defaults.MaxUploadSizeBytes
	}
	return mb << 20
}

func (p *Provider) lookup(ctx context.Context, key string) (string, bool) {
	if v, ok := p.cache.Get(key); ok {
		return v, true
	}

	v, found, err := p.repo.Get(ctx, key)
	if err != nil {
		p.logger.Error("failed to read setting", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	if !found {
		return "", false
	}

	p.cache.Add(key, v)
	return v, true
}

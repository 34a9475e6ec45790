package port

import "context"

// SettingsRepository reads raw key/value settings
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// SettingsProvider exposes typed quota and feature flags
type SettingsProvider interface {
	AllowEveryoneUpload(ctx context.Context) bool
	MaxUploadSize(ctx context.Context) int64
}

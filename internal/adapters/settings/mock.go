package settings

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockSettingsProvider struct {
	mock.Mock
}

func NewMockSettingsProvider() *MockSettingsProvider {
	return &MockSettingsProvider{}
}

func (m *MockSettingsProvider) AllowEveryoneUpload(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockSettingsProvider) MaxUploadSize(ctx context.Context) int64 {
	args := m.Called(ctx)
	return args.Get(0).(int64)
}

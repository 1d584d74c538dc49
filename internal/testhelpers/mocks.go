package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAvatarResolver is a testify mock of storage.AvatarResolver.
type MockAvatarResolver struct {
	mock.Mock
}

func (m *MockAvatarResolver) AvatarURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

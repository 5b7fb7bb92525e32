package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docpipe/internal/service"
)

// MockCleanupService is a mock implementation of service.CleanupService.
type MockCleanupService struct {
	mock.Mock
}

func (m *MockCleanupService) CleanUp(ctx context.Context, input service.CleanupInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

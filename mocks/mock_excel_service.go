package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docpipe/internal/service"
)

// MockExcelService is a mock implementation of service.ExcelService.
type MockExcelService struct {
	mock.Mock
}

func (m *MockExcelService) CreateSpreadsheet(ctx context.Context, input service.SpreadsheetInput) (*service.SpreadsheetResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SpreadsheetResult), args.Error(1)
}

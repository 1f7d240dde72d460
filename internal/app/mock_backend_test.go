package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Send(ctx context.Context, req *models.Request) ([]byte, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) List(ctx context.Context, table string, fields map[string]any) ([]models.Record, error) {
	args := m.Called(table, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockBackend) Edit(ctx context.Context, table string, primaryKey any, fields map[string]any) (*models.BackendResponse, error) {
	args := m.Called(table, primaryKey, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BackendResponse), args.Error(1)
}

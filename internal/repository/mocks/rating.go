package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
)

// RatingRepository 是 repository.RatingRepository 的 Mock 实现
type RatingRepository struct {
	mock.Mock
}

func (m *RatingRepository) Upsert(ctx context.Context, rating *domain.Rating) (bool, error) {
	args := m.Called(ctx, rating)
	return args.Bool(0), args.Error(1)
}

func (m *RatingRepository) ListForStore(ctx context.Context, storeID uint) ([]dto.StoreRatingEntry, error) {
	args := m.Called(ctx, storeID)
	var rows []dto.StoreRatingEntry
	if args.Get(0) != nil {
		rows = args.Get(0).([]dto.StoreRatingEntry)
	}
	return rows, args.Error(1)
}

func (m *RatingRepository) ListRatersForStore(ctx context.Context, storeID uint) ([]dto.OwnerRatingEntry, error) {
	args := m.Called(ctx, storeID)
	var rows []dto.OwnerRatingEntry
	if args.Get(0) != nil {
		rows = args.Get(0).([]dto.OwnerRatingEntry)
	}
	return rows, args.Error(1)
}

func (m *RatingRepository) AverageForStore(ctx context.Context, storeID uint) (*float64, error) {
	args := m.Called(ctx, storeID)
	var avg *float64
	if args.Get(0) != nil {
		avg = args.Get(0).(*float64)
	}
	return avg, args.Error(1)
}

func (m *RatingRepository) AverageForOwner(ctx context.Context, ownerID uint) (*float64, error) {
	args := m.Called(ctx, ownerID)
	var avg *float64
	if args.Get(0) != nil {
		avg = args.Get(0).(*float64)
	}
	return avg, args.Error(1)
}

func (m *RatingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
)

// StoreRepository 是 repository.StoreRepository 的 Mock 实现
type StoreRepository struct {
	mock.Mock
}

func (m *StoreRepository) FindByID(ctx context.Context, id uint) (*domain.Store, error) {
	args := m.Called(ctx, id)
	var store *domain.Store
	if args.Get(0) != nil {
		store = args.Get(0).(*domain.Store)
	}
	return store, args.Error(1)
}

func (m *StoreRepository) FindByNameOrEmail(ctx context.Context, name, email string) (*domain.Store, error) {
	args := m.Called(ctx, name, email)
	var store *domain.Store
	if args.Get(0) != nil {
		store = args.Get(0).(*domain.Store)
	}
	return store, args.Error(1)
}

func (m *StoreRepository) FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Store, error) {
	args := m.Called(ctx, ownerID)
	var stores []domain.Store
	if args.Get(0) != nil {
		stores = args.Get(0).([]domain.Store)
	}
	return stores, args.Error(1)
}

func (m *StoreRepository) CreateWithOwner(ctx context.Context, owner *domain.User, store *domain.Store) error {
	args := m.Called(ctx, owner, store)
	return args.Error(0)
}

func (m *StoreRepository) ListWithRatings(ctx context.Context, q repository.StoreListQuery) ([]dto.StoreWithRating, error) {
	args := m.Called(ctx, q)
	var rows []dto.StoreWithRating
	if args.Get(0) != nil {
		rows = args.Get(0).([]dto.StoreWithRating)
	}
	return rows, args.Error(1)
}

func (m *StoreRepository) ListForUser(ctx context.Context, q repository.StoreListQuery, userID uint) ([]dto.StoreForUser, error) {
	args := m.Called(ctx, q, userID)
	var rows []dto.StoreForUser
	if args.Get(0) != nil {
		rows = args.Get(0).([]dto.StoreForUser)
	}
	return rows, args.Error(1)
}

func (m *StoreRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

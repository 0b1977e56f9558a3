package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
)

// OwnerService 负责店主看板相关的业务逻辑。
type OwnerService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

// NewOwnerService 创建 OwnerService 实例。
func NewOwnerService(storeRepo repository.StoreRepository, ratingRepo repository.RatingRepository) *OwnerService {
	if storeRepo == nil || ratingRepo == nil {
		panic("repositories cannot be nil for OwnerService")
	}
	return &OwnerService{storeRepo: storeRepo, ratingRepo: ratingRepo}
}

// Dashboard 返回店主看板数据。
// 店主拥有多家商店时取检索顺序的第一家 (按 ID 升序) 作为主商店进行聚合，
// 不做多商店汇总。没有任何商店时返回 ErrNoStoresForOwner。
func (s *OwnerService) Dashboard(ctx context.Context, ownerID uint) (*dto.OwnerDashboard, error) {
	logCtx := logrus.WithField("owner_id", ownerID)

	stores, err := s.storeRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		logCtx.WithError(err).Error("Database error fetching owner stores")
		return nil, ErrInternalServer
	}
	if len(stores) == 0 {
		logCtx.Warn("Owner dashboard requested but owner has no stores")
		return nil, ErrNoStoresForOwner
	}
	primary := stores[0]

	avg, err := s.ratingRepo.AverageForStore(ctx, primary.ID)
	if err != nil {
		logCtx.WithError(err).Error("Database error aggregating store rating")
		return nil, ErrInternalServer
	}

	ratings, err := s.ratingRepo.ListRatersForStore(ctx, primary.ID)
	if err != nil {
		logCtx.WithError(err).Error("Database error listing store raters")
		return nil, ErrInternalServer
	}
	if ratings == nil {
		ratings = []dto.OwnerRatingEntry{}
	}

	return &dto.OwnerDashboard{
		Store:         primary,
		AverageRating: formatAverage(avg),
		UserRatings:   ratings,
	}, nil
}

package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
)

// StoreService 负责普通用户浏览商店和提交评分的业务逻辑。
type StoreService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

// NewStoreService 创建 StoreService 实例。
func NewStoreService(storeRepo repository.StoreRepository, ratingRepo repository.RatingRepository) *StoreService {
	if storeRepo == nil || ratingRepo == nil {
		panic("repositories cannot be nil for StoreService")
	}
	return &StoreService{storeRepo: storeRepo, ratingRepo: ratingRepo}
}

// ListStores 返回普通用户视图的商店列表：
// 每行带整体平均评分和 userID 自己提交过的评分 (没有则为 null)。
// 该接口要求认证，userID 始终来自已验证的 token。
func (s *StoreService) ListStores(ctx context.Context, userID uint, q repository.StoreListQuery) ([]dto.StoreForUser, error) {
	rows, err := s.storeRepo.ListForUser(ctx, q, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Database error listing stores for user")
		return nil, ErrInternalServer
	}
	if rows == nil {
		rows = []dto.StoreForUser{}
	}
	return rows, nil
}

// SubmitRating 提交或修改用户对某商店的评分。
// 返回的 created 表示本次是否新建了评分行 (新建 → 201，更新 → 200)。
func (s *StoreService) SubmitRating(ctx context.Context, userID, storeID uint, rating int) (*domain.Rating, bool, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "store_id": storeID, "rating": rating})

	if err := validateRatingValue(rating); err != nil {
		return nil, false, err
	}

	// 商店必须存在才允许评分
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			logCtx.Warn("Rating submission failed: store not found")
			return nil, false, ErrStoreNotFound
		}
		logCtx.WithError(err).Error("Database error checking store existence")
		return nil, false, ErrInternalServer
	}

	row := &domain.Rating{
		StoreID: storeID,
		UserID:  userID,
		Rating:  rating,
	}
	created, err := s.ratingRepo.Upsert(ctx, row)
	if err != nil {
		logCtx.WithError(err).Error("Database error upserting rating")
		return nil, false, ErrInternalServer
	}

	if created {
		logCtx.Info("Rating submitted")
	} else {
		logCtx.Info("Rating updated")
	}
	return row, created, nil
}

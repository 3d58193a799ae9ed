package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"renthub_backend/internal/models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrInvalidReviewRating = errors.New("rating must be between 1 and 5")
)

// RatingStats is the aggregate over a lessor's reviews: arithmetic mean
// and row count, {0, 0} when no reviews exist.
type RatingStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type ReviewRepository interface {
	// Upsert inserts the review, or updates rating/comment in place when a
	// review by the same reviewer for the same reservation already exists.
	Upsert(review *models.Review) error

	FindByReservationAndReviewer(reservationID, reviewerID string) (*models.Review, error)
	FindByLessor(lessorID string, limit, offset int) ([]models.Review, int64, error)
	GetRatingStats(lessorID string) (*RatingStats, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Upsert(review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidReviewRating
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reservation_id"}, {Name: "reviewer_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating":     review.Rating,
			"comment":    review.Comment,
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByReservationAndReviewer(reservationID, reviewerID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("reservation_id = ? AND reviewer_id = ?", reservationID, reviewerID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByLessor(lessorID string, limit, offset int) ([]models.Review, int64, error) {
	var total int64
	if err := r.db.Model(&models.Review{}).Where("lessor_id = ?", lessorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := r.db.Preload("Reviewer").
		Where("lessor_id = ?", lessorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) GetRatingStats(lessorID string) (*RatingStats, error) {
	var stats RatingStats
	err := r.db.Model(&models.Review{}).Where("lessor_id = ?", lessorID).
		Select("COUNT(*) as total_reviews, COALESCE(AVG(rating), 0) as average_rating").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

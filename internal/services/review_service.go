package services

import (
	"context"

	"renthub_backend/internal/models"
	"renthub_backend/internal/repositories"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

// ReviewService gates lessor reviews on reservation outcome: only the
// renter of a completed reservation may rate, and rating twice updates
// the existing review instead of creating a second row.
type ReviewService interface {
	CanRate(ctx context.Context, reservationID, reviewerID string) (*dto.RateEligibility, error)
	RateOrUpdate(ctx context.Context, reviewerID string, req *dto.RateRequest) (*dto.ReviewResponse, error)
	RatingStats(ctx context.Context, lessorID string) (*dto.RatingStatsResponse, error)
	ListLessorReviews(ctx context.Context, lessorID string, page, pageSize int) (*dto.ReviewListResponse, error)
}

type reviewService struct {
	reviewRepo      repositories.ReviewRepository
	reservationRepo repositories.ReservationRepository
	itemRepo        repositories.ItemRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	reservationRepo repositories.ReservationRepository,
	itemRepo repositories.ItemRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
	}
}

// CanRate checks the eligibility rules: the reservation exists, reached
// `completed`, and the reviewer is its renter. On success the lessor is
// resolved transitively through the reservation's item owner.
func (s *reviewService) CanRate(ctx context.Context, reservationID, reviewerID string) (*dto.RateEligibility, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReservationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.TransientError(err)
	}

	if res.Status != models.ReservationStatusCompleted {
		return &dto.RateEligibility{
			Allowed: false,
			Reason:  "Reservation is not completed",
		}, nil
	}

	if res.RenterID != reviewerID {
		return &dto.RateEligibility{
			Allowed: false,
			Reason:  "Only the renter can rate this reservation",
		}, nil
	}

	item, err := s.itemRepo.FindByID(res.ItemID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.TransientError(err)
	}

	return &dto.RateEligibility{
		Allowed:  true,
		LessorID: item.OwnerID,
	}, nil
}

// RateOrUpdate re-checks eligibility and upserts the review keyed by
// (reservation, reviewer): a second call with a different rating updates
// the stored row in place.
func (s *reviewService) RateOrUpdate(ctx context.Context, reviewerID string, req *dto.RateRequest) (*dto.ReviewResponse, error) {
	// Rejected before any persistence attempt.
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.ValidationError(map[string]string{
			"rating": "Rating must be an integer between 1 and 5",
		})
	}

	eligibility, err := s.CanRate(ctx, req.ReservationID, reviewerID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Allowed {
		return nil, apperrors.ErrInvalidOperation("review", eligibility.Reason)
	}

	review := &models.Review{
		ReservationID: req.ReservationID,
		ReviewerID:    reviewerID,
		LessorID:      eligibility.LessorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	if err := s.reviewRepo.Upsert(review); err != nil {
		if apperrors.Is(err, repositories.ErrInvalidReviewRating) {
			return nil, apperrors.ValidationError(map[string]string{
				"rating": "Rating must be an integer between 1 and 5",
			})
		}
		return nil, apperrors.TransientError(err)
	}

	// Read back so the response carries the stored row after a
	// conflict-update as well as after a fresh insert.
	stored, err := s.reviewRepo.FindByReservationAndReviewer(req.ReservationID, reviewerID)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}

	return buildReviewResponse(stored), nil
}

func (s *reviewService) RatingStats(ctx context.Context, lessorID string) (*dto.RatingStatsResponse, error) {
	stats, err := s.reviewRepo.GetRatingStats(lessorID)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}

	return &dto.RatingStatsResponse{
		LessorID: lessorID,
		Average:  stats.AverageRating,
		Count:    stats.TotalReviews,
	}, nil
}

func (s *reviewService) ListLessorReviews(ctx context.Context, lessorID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	offset := (page - 1) * pageSize
	reviews, total, err := s.reviewRepo.FindByLessor(lessorID, pageSize, offset)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}

	out := &dto.ReviewListResponse{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}
	for i := range reviews {
		out.Reviews = append(out.Reviews, buildReviewResponse(&reviews[i]))
	}
	return out, nil
}

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:            review.ID,
		ReservationID: review.ReservationID,
		ReviewerID:    review.ReviewerID,
		LessorID:      review.LessorID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
		UpdatedAt:     review.UpdatedAt,
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}

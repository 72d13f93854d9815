package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	errs "estately_service/errors"
)

var (
	ErrInvalidRating   = errors.New(errs.InvalidRatingError)
	ErrCommentTooShort = errors.New(errs.CommentTooShortError)
)

type ReviewService struct {
	reviews domain.ReviewStore
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewReviewService(reviews domain.ReviewStore, logger *logrus.Logger, tracer trace.Tracer) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		logger:  logger,
		tracer:  tracer,
	}
}

// Create validates the rating and comment, then delegates to the store,
// whose transactional insert enforces one review per (author, target,
// targetType).
func (service *ReviewService) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Create")
	defer span.End()

	if review.Rating < 1 || review.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if len(review.Comment) < 10 {
		return nil, ErrCommentTooShort
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	review.CreatedAt = time.Now()

	created, err := service.reviews.Create(ctx, review)
	if err != nil {
		service.logger.Printf("Error creating review: %v", err)
		return nil, err
	}
	return created, nil
}

func (service *ReviewService) GetByTarget(ctx context.Context, targetType, targetID string) ([]*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.GetByTarget")
	defer span.End()

	return service.reviews.GetByTarget(ctx, targetType, targetID)
}

func (service *ReviewService) GetByAuthor(ctx context.Context, authorID string) ([]*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.GetByAuthor")
	defer span.End()

	return service.reviews.GetByAuthor(ctx, authorID)
}

// Summary recomputes the average over the live result set on every
// call; nothing is materialized.
func (service *ReviewService) Summary(ctx context.Context, targetType, targetID string) (domain.RatingSummary, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Summary")
	defer span.End()

	reviews, err := service.reviews.GetByTarget(ctx, targetType, targetID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("failed to load reviews: %v", err)
	}
	return domain.Summarize(targetID, reviews), nil
}

func (service *ReviewService) Delete(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Delete")
	defer span.End()

	if err := service.reviews.Delete(ctx, id); err != nil {
		service.logger.Printf("Error deleting review %s: %v", id, err)
		return fmt.Errorf("failed to delete review: %v", err)
	}
	return nil
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

type PropertyService struct {
	properties domain.PropertyStore
	logger     *logrus.Logger
	tracer     trace.Tracer
}

func NewPropertyService(properties domain.PropertyStore, logger *logrus.Logger, tracer trace.Tracer) *PropertyService {
	return &PropertyService{
		properties: properties,
		logger:     logger,
		tracer:     tracer,
	}
}

// New properties start pending and become visible once an admin
// publishes them.
func (service *PropertyService) Create(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Create")
	defer span.End()

	if err := property.Validate(); err != nil {
		return nil, err
	}

	property.Status = domain.PropertyPending
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt

	created, err := service.properties.Create(ctx, property)
	if err != nil {
		service.logger.Printf("Error creating property: %v", err)
		return nil, fmt.Errorf("failed to create property: %v", err)
	}
	return created, nil
}

func (service *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Get")
	defer span.End()

	return service.properties.Get(ctx, id)
}

func (service *PropertyService) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.GetByOwner")
	defer span.End()

	return service.properties.GetByOwner(ctx, ownerID)
}

func (service *PropertyService) GetPublished(ctx context.Context) ([]*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.GetPublished")
	defer span.End()

	return service.properties.GetByStatus(ctx, domain.PropertyPublished)
}

func (service *PropertyService) Delete(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Delete")
	defer span.End()

	if err := service.properties.Delete(ctx, id); err != nil {
		service.logger.Printf("Error deleting property %s: %v", id, err)
		return fmt.Errorf("failed to delete property: %v", err)
	}
	return nil
}

package db

import (
	"context"

	"github.com/ukydev/carcare-booking/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OfferingCollection defines the interface for service catalog operations.
type OfferingCollection interface {
	InsertOffering(ctx context.Context, offering models.ServiceOffering) error
	FindOfferings(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (OfferingCursor, error)
	CountOfferings(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

// OfferingCursor defines the interface for offering cursor operations.
type OfferingCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/catalog"
	"github.com/ukydev/carcare-booking/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadCatalog reads every offering from coll and builds the catalog. An empty
// collection is seeded with seed first.
func LoadCatalog(ctx context.Context, coll OfferingCollection, seed []models.ServiceOffering) (*catalog.Catalog, error) {
	count, err := coll.CountOfferings(ctx)
	if err != nil {
		return nil, fmt.Errorf("count offerings: %w", err)
	}
	if count == 0 {
		log.WithField("offerings", len(seed)).Info("Seeding empty service catalog")
		if err := insertOfferings(ctx, coll, seed); err != nil {
			return nil, err
		}
	}

	cursor, err := coll.FindOfferings(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find offerings: %w", err)
	}
	defer cursor.Close(ctx)

	var offerings []models.ServiceOffering
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("decode offerings: %w", err)
	}
	return catalog.New(offerings)
}

// ReseedCatalog replaces every stored offering with seed.
func ReseedCatalog(ctx context.Context, coll OfferingCollection, seed []models.ServiceOffering) error {
	if err := coll.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear offerings: %w", err)
	}
	log.WithField("offerings", len(seed)).Info("Reseeding service catalog")
	return insertOfferings(ctx, coll, seed)
}

func insertOfferings(ctx context.Context, coll OfferingCollection, offerings []models.ServiceOffering) error {
	for _, o := range offerings {
		if err := coll.InsertOffering(ctx, o); err != nil {
			return fmt.Errorf("seed offering %s: %w", o.ID, err)
		}
	}
	return nil
}

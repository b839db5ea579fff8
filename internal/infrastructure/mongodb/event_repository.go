package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
	"github.com/oksasatya/eventplanner/internal/domain/repository"
)

// eventDoc keeps the field names of the existing events collection.
type eventDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"nameEvent"`
	Date        time.Time          `bson:"fecha"`
	Time        string             `bson:"hora"`
	Location    string             `bson:"ubicacion"`
	Description string             `bson:"descripcion"`
	Owner       primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d eventDoc) toEntity() entity.Event {
	return entity.Event{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Date:        d.Date.UTC(),
		Time:        d.Time,
		Location:    d.Location,
		Description: d.Description,
		OwnerID:     d.Owner.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type EventRepository struct {
	coll *mongo.Collection
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	owner, err := primitive.ObjectIDFromHex(e.OwnerID)
	if err != nil {
		return fmt.Errorf("%w: %q", entity.ErrInvalidOwner, e.OwnerID)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := eventDoc{
		ID:          primitive.NewObjectID(),
		Name:        e.Name,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	e.ID = doc.ID.Hex()
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrEventNotFound
	}
	var doc eventDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrEventNotFound
		}
		return nil, err
	}
	e := doc.toEntity()
	return &e, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Event, error) {
	out := []entity.Event{}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return out, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return entity.ErrEventNotFound
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"nameEvent":   e.Name,
		"fecha":       e.Date,
		"hora":        e.Time,
		"ubicacion":   e.Location,
		"descripcion": e.Description,
		"updatedAt":   now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrEventNotFound
	}
	e.UpdatedAt = now
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entity.ErrEventNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)

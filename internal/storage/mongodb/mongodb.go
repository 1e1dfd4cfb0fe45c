// Package mongodb implements storage.Storage over a MongoDB collection using
// the official Go driver. It is the primary backend.
//
// The gateway is handed a *mongo.Collection at construction; it never opens
// or owns a global client. Connecting is the caller's job (see the driver
// package), which keeps this package testable against a mock deployment.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// phoneIndex is the name of the unique index that enforces phone uniqueness.
const phoneIndex = "phone_unique"

// document is the BSON shape of a student. The handler-facing types.Student
// uses a string id; here it is a native ObjectID under _id.
type document struct {
	ID      primitive.ObjectID `bson:"_id"`
	Name    string             `bson:"name"`
	Address string             `bson:"address"`
	Phone   string             `bson:"phone"`
}

func (d document) student() types.Student {
	return types.Student{
		ID:      d.ID.Hex(),
		Name:    d.Name,
		Address: d.Address,
		Phone:   d.Phone,
	}
}

// Mongo is the concrete implementation of storage.Storage.
type Mongo struct {
	coll *mongo.Collection
}

// New wraps coll. It performs no I/O; call EnsureIndexes once at startup.
func New(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// EnsureIndexes creates the unique phone index if it does not exist yet.
// Without it the store cannot report duplicate phones, so startup should
// fail when this does.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetName(phoneIndex).SetUnique(true),
	})
	if err != nil {
		return storage.Unavailable("EnsureIndexes", err)
	}
	return nil
}

func (m *Mongo) GetStudents(ctx context.Context) ([]types.Student, error) {
	cursor, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, storage.Unavailable("GetStudents: find", err)
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storage.Unavailable("GetStudents: decode", err)
	}

	students := make([]types.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, doc.student())
	}
	return students, nil
}

func (m *Mongo) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Student{}, storage.ErrInvalidID
	}

	var doc document
	err = m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		return types.Student{}, readError("GetStudentByID "+id, err)
	}
	return doc.student(), nil
}

func (m *Mongo) CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error) {
	in, err := storage.Prepare(in)
	if err != nil {
		return types.Student{}, err
	}

	doc := document{
		ID:      primitive.NewObjectID(),
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return types.Student{}, writeError("CreateStudent", err)
	}
	return doc.student(), nil
}

func (m *Mongo) UpdateStudentByID(ctx context.Context, id string, in types.StudentInput) (types.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Student{}, storage.ErrInvalidID
	}
	in, err = storage.Prepare(in)
	if err != nil {
		return types.Student{}, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: in.Name},
		{Key: "address", Value: in.Address},
		{Key: "phone", Value: in.Phone},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document
	err = m.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.Student{}, fmt.Errorf("UpdateStudentByID %s: %w", id, storage.ErrDuplicatePhone)
		}
		return types.Student{}, readError("UpdateStudentByID "+id, err)
	}
	return doc.student(), nil
}

func (m *Mongo) DeleteStudentByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrInvalidID
	}

	result, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return storage.Unavailable("DeleteStudentByID", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("DeleteStudentByID %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return storage.Unavailable("Ping", err)
	}
	return nil
}

// Close disconnects the client the collection belongs to.
func (m *Mongo) Close(ctx context.Context) error {
	return m.coll.Database().Client().Disconnect(ctx)
}

func readError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return storage.Unavailable(op, err)
}

func writeError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicatePhone)
	}
	return storage.Unavailable(op, err)
}

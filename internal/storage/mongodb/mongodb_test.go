package mongodb

import (
	"context"
	"testing"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var asha = types.StudentInput{Name: "Asha Rao", Address: "12 MG Road, Pune", Phone: "9876543210"}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func studentDoc(id primitive.ObjectID, in types.StudentInput) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: in.Name},
		{Key: "address", Value: in.Address},
		{Key: "phone", Value: in.Phone},
	}
}

func TestMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, New(mt.Coll).EnsureIndexes(ctx))
	})

	mt.Run("list", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		other := asha
		other.Phone = "9123456789"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			studentDoc(first, asha),
			studentDoc(second, other),
		))

		students, err := New(mt.Coll).GetStudents(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, []types.Student{asha.WithID(first.Hex()), other.WithID(second.Hex())}, students)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		students, err := New(mt.Coll).GetStudents(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, students)
		assert.Empty(mt, students)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, studentDoc(id, asha)))

		student, err := New(mt.Coll).GetStudentByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, asha.WithID(id.Hex()), student)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := New(mt.Coll).GetStudentByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, storage.ErrNotFound)
	})

	mt.Run("malformed ids never reach the server", func(mt *mtest.T) {
		m := New(mt.Coll)

		_, err := m.GetStudentByID(ctx, "123")
		assert.ErrorIs(mt, err, storage.ErrInvalidID)
		_, err = m.UpdateStudentByID(ctx, "123", asha)
		assert.ErrorIs(mt, err, storage.ErrInvalidID)
		assert.ErrorIs(mt, m.DeleteStudentByID(ctx, "123"), storage.ErrInvalidID)
	})

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		student, err := New(mt.Coll).CreateStudent(ctx, types.StudentInput{Name: " Asha Rao ", Address: "12 MG Road, Pune ", Phone: "9876543210"})
		require.NoError(mt, err)
		assert.True(mt, storage.ValidID(student.ID))
		assert.Equal(mt, asha.WithID(student.ID), student)
	})

	mt.Run("create duplicate phone", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: students.students index: phone_unique",
		}))

		_, err := New(mt.Coll).CreateStudent(ctx, asha)
		assert.ErrorIs(mt, err, storage.ErrDuplicatePhone)
	})

	mt.Run("create invalid", func(mt *mtest.T) {
		_, err := New(mt.Coll).CreateStudent(ctx, types.StudentInput{Name: "asha"})

		var verr *storage.ValidationError
		assert.ErrorAs(mt, err, &verr)
	})

	mt.Run("create invalid once trimmed", func(mt *mtest.T) {
		m := New(mt.Coll)

		var verr *storage.ValidationError
		_, err := m.CreateStudent(ctx, types.StudentInput{Name: "Ab ", Address: "12 MG Road, Pune", Phone: "9876543210"})
		assert.ErrorAs(mt, err, &verr)
		_, err = m.CreateStudent(ctx, types.StudentInput{Name: "Asha Rao", Address: "     ", Phone: "9876543210"})
		assert.ErrorAs(mt, err, &verr)
	})

	mt.Run("create server failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := New(mt.Coll).CreateStudent(ctx, asha)
		assert.ErrorIs(mt, err, storage.ErrUnavailable)
	})

	mt.Run("update", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		change := types.StudentInput{Name: "Asha Rao", Address: "7 FC Road, Pune", Phone: "9876543211"}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: studentDoc(id, change)}))

		student, err := New(mt.Coll).UpdateStudentByID(ctx, id.Hex(), change)
		require.NoError(mt, err)
		assert.Equal(mt, change.WithID(id.Hex()), student)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := New(mt.Coll).UpdateStudentByID(ctx, primitive.NewObjectID().Hex(), asha)
		assert.ErrorIs(mt, err, storage.ErrNotFound)
	})

	mt.Run("update duplicate phone", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Name:    "DuplicateKey",
			Message: "E11000 duplicate key error",
		}))

		_, err := New(mt.Coll).UpdateStudentByID(ctx, primitive.NewObjectID().Hex(), asha)
		assert.ErrorIs(mt, err, storage.ErrDuplicatePhone)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, New(mt.Coll).DeleteStudentByID(ctx, primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := New(mt.Coll).DeleteStudentByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, storage.ErrNotFound)
	})
}

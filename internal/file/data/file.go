// Package data implements the metadata repository on MongoDB.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/filedrop/filedrop/internal/file/biz"
	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
	"github.com/filedrop/filedrop/internal/pkg/logger"
	"github.com/filedrop/filedrop/internal/pkg/mongo"
	"github.com/filedrop/filedrop/internal/pkg/retry"
	"github.com/filedrop/filedrop/internal/storage"
)

const collectionName = "files"

// fileDocument is the BSON shape of a metadata record.
type fileDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Filename    string             `bson:"filename"`
	Size        int64              `bson:"size"`
	ContentType string             `bson:"content_type"`
	UploadDate  time.Time          `bson:"upload_date"`
	ObjectName  string             `bson:"object_name"`
}

func (d *fileDocument) toRecord() *biz.FileRecord {
	return &biz.FileRecord{
		ID:          d.ID.Hex(),
		Filename:    d.Filename,
		Size:        d.Size,
		ContentType: d.ContentType,
		UploadDate:  d.UploadDate,
		ObjectName:  d.ObjectName,
	}
}

// FileRepo implements biz.FileRepo on a MongoDB collection. Data-bearing
// operations retry connectivity-class failures with a bounded fixed
// delay; anything else surfaces immediately.
type FileRepo struct {
	client    *mongo.Client
	retryOpts retry.Options
	logger    *logger.Logger
}

func NewFileRepo(client *mongo.Client, log *logger.Logger) *FileRepo {
	opts := retry.DefaultOptions()
	opts.Retryable = mongo.IsTransient

	return &FileRepo{
		client:    client,
		retryOpts: opts,
		logger:    log.Named("file.data"),
	}
}

func (r *FileRepo) collection() *driver.Collection {
	return r.client.Collection(collectionName)
}

// Insert appends one document and returns the store-assigned id.
func (r *FileRepo) Insert(ctx context.Context, input *biz.FileRecordInput) (string, error) {
	doc := &fileDocument{
		Filename:    input.Filename,
		Size:        input.Size,
		ContentType: input.ContentType,
		UploadDate:  input.UploadDate,
		ObjectName:  input.ObjectName,
	}

	var id primitive.ObjectID
	err := retry.Do(ctx, r.retryOpts, func(ctx context.Context) error {
		res, err := r.collection().InsertOne(ctx, doc)
		if err != nil {
			return err
		}
		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
		}
		id = oid
		return nil
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrDatabaseFailed, "insert file record")
	}

	return id.Hex(), nil
}

// List returns all records in the store's natural retrieval order. An
// empty collection yields an empty slice, never an error.
func (r *FileRepo) List(ctx context.Context) ([]*biz.FileRecord, error) {
	var records []*biz.FileRecord

	err := retry.Do(ctx, r.retryOpts, func(ctx context.Context) error {
		cur, err := r.collection().Find(ctx, bson.D{})
		if err != nil {
			return err
		}
		defer cur.Close(ctx)

		var docs []fileDocument
		if err := cur.All(ctx, &docs); err != nil {
			return err
		}

		records = make([]*biz.FileRecord, 0, len(docs))
		for i := range docs {
			records = append(records, docs[i].toRecord())
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseFailed, "list file records")
	}

	return records, nil
}

// GetByID resolves a record by its hex ObjectID. A malformed id and a
// well-formed but absent id both surface the same not-found code.
func (r *FileRepo) GetByID(ctx context.Context, id string) (*biz.FileRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrFileNotFound, id)
	}

	var doc fileDocument
	err = retry.Do(ctx, r.retryOpts, func(ctx context.Context) error {
		return r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.ErrFileNotFound, id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseFailed, "get file record")
	}

	return doc.toRecord(), nil
}

// Health pings the server. It never returns an error.
func (r *FileRepo) Health(ctx context.Context) storage.Health {
	if err := r.client.Ping(ctx); err != nil {
		return storage.Unhealthy(fmt.Sprintf("mongodb unreachable: %v", err))
	}
	return storage.Healthy()
}

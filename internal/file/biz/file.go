// Package biz holds the upload/download/list/health use case. It
// sequences blob writes against the storage backend and metadata writes
// against the repository, and owns all input validation.
package biz

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
	"github.com/filedrop/filedrop/internal/pkg/logger"
	"github.com/filedrop/filedrop/internal/storage"
)

// FileRecord is the durable metadata unit, one per stored blob. Records
// are created only after the blob write succeeds and are read-only
// afterwards.
type FileRecord struct {
	ID          string
	Filename    string
	Size        int64
	ContentType string
	UploadDate  time.Time
	ObjectName  string
}

// FileRecordInput is the to-be-inserted form of a FileRecord, before the
// store assigns an identifier.
type FileRecordInput struct {
	Filename    string
	Size        int64
	ContentType string
	UploadDate  time.Time
	ObjectName  string
}

// FileRepo is the metadata store contract implemented by the data layer.
type FileRepo interface {
	Insert(ctx context.Context, input *FileRecordInput) (string, error)
	List(ctx context.Context) ([]*FileRecord, error)
	GetByID(ctx context.Context, id string) (*FileRecord, error)
	Health(ctx context.Context) storage.Health
}

// UploadResult is returned to the caller after a successful upload.
type UploadResult struct {
	FileID   string
	Filename string
	Size     int64
}

// FileListItem is the list projection: size and content type are
// intentionally omitted.
type FileListItem struct {
	FileID     string
	Filename   string
	UploadDate time.Time
}

// DownloadResult carries the blob stream plus the presentation metadata
// recorded at upload time. The caller must close Content.
type DownloadResult struct {
	Content     io.ReadCloser
	Filename    string
	Size        int64
	ContentType string
}

// HealthReport aggregates independent probes of both backends.
type HealthReport struct {
	Status     string           `json:"status"`
	Components HealthComponents `json:"components"`
}

type HealthComponents struct {
	Database storage.Health `json:"database"`
	Storage  storage.Health `json:"storage"`
}

// FileUseCase orchestrates the storage backend and the metadata store.
type FileUseCase struct {
	store       storage.Store
	repo        FileRepo
	allowedExts []string
	logger      *logger.Logger
}

func NewFileUseCase(store storage.Store, repo FileRepo, allowedExts []string, log *logger.Logger) *FileUseCase {
	return &FileUseCase{
		store:       store,
		repo:        repo,
		allowedExts: allowedExts,
		logger:      log.Named("file.biz"),
	}
}

// Upload validates the input, writes the blob, then records metadata.
// Nothing is written on rejection. A metadata insert failure after a
// successful blob write leaves the blob orphaned; that window is logged
// and accepted, no rollback is attempted.
func (uc *FileUseCase) Upload(ctx context.Context, filename, contentType string, content []byte) (*UploadResult, error) {
	if filename == "" {
		return nil, apperrors.New(apperrors.ErrFileMissingName)
	}
	if !uc.extensionAllowed(filename) {
		return nil, apperrors.New(apperrors.ErrFileInvalidType,
			"allowed: "+strings.Join(uc.allowedExts, ", "))
	}
	if len(content) == 0 {
		return nil, apperrors.New(apperrors.ErrFileEmpty, filename)
	}

	// Random prefix makes the key globally unique; collisions are treated
	// as negligible, no retry loop.
	objectName := uuid.New().String() + filename
	size := int64(len(content))

	if err := uc.store.Upload(ctx, objectName, bytes.NewReader(content), size, contentType); err != nil {
		uc.logger.Error("blob write failed",
			zap.String("object_name", objectName),
			zap.Error(err))
		return nil, err
	}

	input := &FileRecordInput{
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
		UploadDate:  time.Now().UTC(),
		ObjectName:  objectName,
	}

	id, err := uc.repo.Insert(ctx, input)
	if err != nil {
		// Blob is already durable; without a metadata record it is
		// unreachable through the public interface.
		uc.logger.Error("metadata insert failed, blob orphaned",
			zap.String("object_name", objectName),
			zap.Error(err))
		return nil, err
	}

	uc.logger.Info("file uploaded",
		zap.String("file_id", id),
		zap.String("filename", filename),
		zap.Int64("size", size))

	return &UploadResult{FileID: id, Filename: filename, Size: size}, nil
}

// Download resolves the metadata record, verifies the blob is present,
// and returns its stream. A missing record and a missing blob both map
// to the outward not-found category; the blob-level miss is logged
// separately since it indicates an inconsistency.
func (uc *FileUseCase) Download(ctx context.Context, id string) (*DownloadResult, error) {
	rec, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := uc.store.Exists(ctx, rec.ObjectName)
	if err != nil {
		return nil, err
	}
	if !exists {
		uc.logger.Warn("metadata record exists but blob is missing",
			zap.String("file_id", rec.ID),
			zap.String("object_name", rec.ObjectName))
		return nil, apperrors.New(apperrors.ErrObjectNotFound, rec.ObjectName)
	}

	rc, err := uc.store.Read(ctx, rec.ObjectName)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		Content:     rc,
		Filename:    rec.Filename,
		Size:        rec.Size,
		ContentType: rec.ContentType,
	}, nil
}

// List projects every record to its listing form.
func (uc *FileUseCase) List(ctx context.Context) ([]*FileListItem, error) {
	records, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*FileListItem, 0, len(records))
	for _, rec := range records {
		items = append(items, &FileListItem{
			FileID:     rec.ID,
			Filename:   rec.Filename,
			UploadDate: rec.UploadDate,
		})
	}
	return items, nil
}

// Health probes both backends independently. Overall status is healthy
// only when both components are; details of both are always attached.
func (uc *FileUseCase) Health(ctx context.Context) *HealthReport {
	db := uc.repo.Health(ctx)
	st := uc.store.Health(ctx)

	status := storage.StatusHealthy
	if !db.OK() || !st.OK() {
		status = storage.StatusUnhealthy
	}

	return &HealthReport{
		Status: status,
		Components: HealthComponents{
			Database: db,
			Storage:  st,
		},
	}
}

// extensionAllowed does a case-insensitive suffix match against the
// configured allow-list.
func (uc *FileUseCase) extensionAllowed(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range uc.allowedExts {
		if ext != "" && strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

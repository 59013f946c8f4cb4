// Package service exposes the file operations over HTTP.
package service

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/filedrop/filedrop/internal/file/biz"
	"github.com/filedrop/filedrop/internal/pkg/logger"
	"github.com/filedrop/filedrop/internal/pkg/response"
	"github.com/filedrop/filedrop/internal/storage"
)

type FileService struct {
	uc     *biz.FileUseCase
	logger *logger.Logger
}

func NewFileService(uc *biz.FileUseCase, log *logger.Logger) *FileService {
	return &FileService{
		uc:     uc,
		logger: log.Named("file.service"),
	}
}

// RegisterRoutes mounts the file endpoints on the given group.
func (s *FileService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", s.Upload)
	rg.GET("/files", s.List)
	rg.GET("/download/:id", s.Download)
	rg.GET("/health", s.Health)
}

// Upload handles POST /upload with a multipart "file" field.
func (s *FileService) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "invalid file or field name is not 'file'")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("failed to read upload body", zap.Error(err))
		response.InternalError(c, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res, err := s.uc.Upload(c.Request.Context(), header.Filename, contentType, content)
	if err != nil {
		s.logger.Error("upload failed",
			zap.String("filename", header.Filename),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, toUploadResponse(res))
}

// List handles GET /files.
func (s *FileService) List(c *gin.Context) {
	items, err := s.uc.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	files := make([]FileResponse, 0, len(items))
	for _, item := range items {
		files = append(files, toFileResponse(item))
	}

	response.Success(c, files)
}

// Download handles GET /download/:id, streaming the blob back with the
// content type and filename recorded at upload.
func (s *FileService) Download(c *gin.Context) {
	id := c.Param("id")

	res, err := s.uc.Download(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("download failed", zap.String("file_id", id), zap.Error(err))
		response.HandleError(c, err)
		return
	}
	defer res.Content.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", res.Filename),
	}
	c.DataFromReader(http.StatusOK, res.Size, res.ContentType, res.Content, extraHeaders)
}

// Health handles GET /health, reporting both components regardless of
// which one failed.
func (s *FileService) Health(c *gin.Context) {
	report := s.uc.Health(c.Request.Context())

	status := http.StatusOK
	if report.Status != storage.StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, report)
}

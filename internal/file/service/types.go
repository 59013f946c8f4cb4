package service

import (
	"time"

	"github.com/filedrop/filedrop/internal/file/biz"
)

// UploadResponse is the payload returned after a successful upload.
type UploadResponse struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// FileResponse is one entry of the listing.
type FileResponse struct {
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
}

func toUploadResponse(res *biz.UploadResult) *UploadResponse {
	return &UploadResponse{
		FileID:   res.FileID,
		Filename: res.Filename,
		Size:     res.Size,
	}
}

func toFileResponse(item *biz.FileListItem) FileResponse {
	return FileResponse{
		FileID:     item.FileID,
		Filename:   item.Filename,
		UploadDate: item.UploadDate,
	}
}

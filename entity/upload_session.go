package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadSession tracks one in-flight multipart upload. It lives in the cache only and expires on its own.
type UploadSession struct {
	UploadID            string    `json:"upload_id"`
	FileID              uuid.UUID `json:"file_id"`
	OssKey              string    `json:"oss_key"`
	FileHash            string    `json:"file_hash"`
	FileName            string    `json:"file_name"`
	FileSize            int64     `json:"file_size"`
	MimeType            string    `json:"mime_type"`
	UploadedBy          string    `json:"uploaded_by"`
	UploadedPartNumbers []int     `json:"uploaded_part_numbers"`
	CreatedAt           time.Time `json:"created_at"`
}

// ObjectPart is one part of a multipart upload as reported by the object store.
type ObjectPart struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
	Size       int64  `json:"size"`
}

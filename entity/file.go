package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FileStatus string

const (
	FileStatusUploading FileStatus = "uploading"
	FileStatusUploaded  FileStatus = "uploaded"
	FileStatusFailed    FileStatus = "failed"
)

type ParseStatus string

const (
	ParseStatusPending ParseStatus = "pending"
	ParseStatusParsing ParseStatus = "parsing"
	ParseStatusParsed  ParseStatus = "parsed"
	ParseStatusFailed  ParseStatus = "failed"
)

// File is the durable record of an uploaded (or uploading) object, deduplicated by content hash.
type File struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	FileHash    string         `json:"file_hash" gorm:"type:varchar(128);not null;uniqueIndex"`
	FileName    string         `json:"file_name" gorm:"type:varchar(512);not null"`
	FileSize    int64          `json:"file_size" gorm:"not null"`
	MimeType    string         `json:"mime_type" gorm:"type:varchar(255);not null"`
	OssKey      string         `json:"oss_key" gorm:"type:varchar(1024);not null"`
	Status      FileStatus     `json:"status" gorm:"type:varchar(32);not null;default:'uploading';index;index:idx_files_status_created,priority:1"`
	UploadedBy  string         `json:"uploaded_by" gorm:"type:varchar(128);not null;default:'anonymous';index"`
	ParseStatus ParseStatus    `json:"parse_status" gorm:"type:varchar(32);not null;default:'pending'"`
	ParseResult datatypes.JSON `json:"parse_result,omitempty"`
	ParseError  string         `json:"parse_error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;autoCreateTime;index:idx_files_status_created,priority:2"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (File) TableName() string {
	return "files"
}

// FileCategory is the coarse classification derived from a MIME type.
type FileCategory string

const (
	FileCategoryImage    FileCategory = "image"
	FileCategoryVideo    FileCategory = "video"
	FileCategoryAudio    FileCategory = "audio"
	FileCategoryDocument FileCategory = "document"
	FileCategoryArchive  FileCategory = "archive"
	FileCategoryCode     FileCategory = "code"
	FileCategoryOther    FileCategory = "other"
)

// FileInfo is one entry of a batch lookup. Missing entries carry only the requested ID.
type FileInfo struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Size     int64        `json:"size"`
	MimeType string       `json:"mimeType"`
	URL      string       `json:"url"`
	Category FileCategory `json:"category"`
	Missing  bool         `json:"missing"`
}

package entity

import "encoding/json"

// FileUploadedEvent is published once a multipart upload has been assembled.
type FileUploadedEvent struct {
	FileID     string       `json:"file_id"`
	FileHash   string       `json:"file_hash"`
	OssKey     string       `json:"oss_key"`
	FileName   string       `json:"file_name"`
	MimeType   string       `json:"mime_type"`
	Category   FileCategory `json:"category"`
	UploadedBy string       `json:"uploaded_by"`
	Timestamp  int64        `json:"timestamp"`
}

// ParseResultMessage is sent back by the document parser.
type ParseResultMessage struct {
	FileID      string          `json:"file_id"`
	ParseStatus ParseStatus     `json:"parse_status"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

package dto

type InitUploadRequestDTO struct {
	FileHash string `json:"fileHash" binding:"required"`
	FileName string `json:"fileName" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"required,gt=0"`
	MimeType string `json:"mimeType" binding:"required"`
}

type SignPartRequestDTO struct {
	UploadID   string `json:"uploadId" binding:"required"`
	PartNumber int    `json:"partNumber" binding:"required,min=1,max=10000"`
}

type SignPartResponseDTO struct {
	URL string `json:"url"`
}

type CompleteUploadRequestDTO struct {
	UploadID string `json:"uploadId" binding:"required"`
}

type BatchInfoRequestDTO struct {
	FileIDs []string `json:"fileIds"`
}

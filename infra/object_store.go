package infra

import (
	"context"
	"time"

	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/entity"
)

// ObjectStorage is implemented by MinioClient and S3Client.
type ObjectStorage interface {
	InitiateMultipartUpload(ctx context.Context, key, contentType string) (string, error)
	PresignPartURL(ctx context.Context, key, uploadID string, partNumber int, expiry time.Duration) (string, error)
	ListUploadedParts(ctx context.Context, key, uploadID string) ([]entity.ObjectPart, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []entity.ObjectPart) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
	PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) (*StorageHealth, error)
}

type StorageHealth struct {
	Driver        string `json:"driver"`
	Bucket        string `json:"bucket"`
	Reachable     bool   `json:"reachable"`
	Mode          string `json:"mode,omitempty"`
	OnlineServers int    `json:"online_servers,omitempty"`
	TotalServers  int    `json:"total_servers,omitempty"`
}

func InitObjectStorage(cfg *config.EnvConfig) ObjectStorage {
	switch cfg.ObjectStore.Driver {
	case "s3":
		return InitS3Client(cfg)
	default:
		return InitMinioClient(cfg)
	}
}

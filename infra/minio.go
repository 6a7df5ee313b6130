package infra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/entity"
)

const listPartsPageSize = 1000

type MinioClient struct {
	Admin    *madmin.AdminClient
	Core     *minio.Core
	Bucket   string
	Endpoint string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.ObjectStore.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	accessKey := cfg.ObjectStore.AccessKey
	if accessKey == "" {
		panic("MinIO access key is not configured")
	}

	secretKey := cfg.ObjectStore.SecretKey
	if secretKey == "" {
		panic("MinIO secret key is not configured")
	}

	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.ObjectStore.UseSSL,
		Region: cfg.ObjectStore.Region,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	// The admin API needs root-level credentials; without them only the storage probe degrades.
	admin, err := madmin.New(endpoint, accessKey, secretKey, cfg.ObjectStore.UseSSL)
	if err != nil {
		admin = nil
	}

	client := &MinioClient{
		Admin:    admin,
		Core:     core,
		Bucket:   cfg.ObjectStore.Bucket,
		Endpoint: endpoint,
	}

	if err := client.EnsureBucket(context.Background(), cfg.ObjectStore.Region); err != nil {
		panic(fmt.Sprintf("Failed to prepare MinIO bucket: %v", err))
	}
	return client
}

// EnsureBucket creates the bucket if it doesn't exist
func (m *MinioClient) EnsureBucket(ctx context.Context, region string) error {
	exists, err := m.Core.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.Core.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (m *MinioClient) InitiateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	uploadID, err := m.Core.NewMultipartUpload(ctx, m.Bucket, key, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to initiate multipart upload: %w", err)
	}
	return uploadID, nil
}

func (m *MinioClient) PresignPartURL(ctx context.Context, key, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("uploadId", uploadID)
	params.Set("partNumber", strconv.Itoa(partNumber))

	u, err := m.Core.Presign(ctx, http.MethodPut, m.Bucket, key, expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to presign part %d: %w", partNumber, err)
	}
	return u.String(), nil
}

// ListUploadedParts walks every page of the part listing.
func (m *MinioClient) ListUploadedParts(ctx context.Context, key, uploadID string) ([]entity.ObjectPart, error) {
	var parts []entity.ObjectPart
	marker := 0
	for {
		result, err := m.Core.ListObjectParts(ctx, m.Bucket, key, uploadID, marker, listPartsPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list parts: %w", err)
		}
		for _, p := range result.ObjectParts {
			parts = append(parts, entity.ObjectPart{PartNumber: p.PartNumber, ETag: p.ETag, Size: p.Size})
		}
		if !result.IsTruncated {
			return parts, nil
		}
		marker = result.NextPartNumberMarker
	}
}

func (m *MinioClient) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []entity.ObjectPart) error {
	complete := make([]minio.CompletePart, len(parts))
	for i, p := range parts {
		complete[i] = minio.CompletePart{PartNumber: p.PartNumber, ETag: p.ETag}
	}

	if _, err := m.Core.CompleteMultipartUpload(ctx, m.Bucket, key, uploadID, complete, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}
	return nil
}

func (m *MinioClient) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	return m.Core.AbortMultipartUpload(ctx, m.Bucket, key, uploadID)
}

func (m *MinioClient) PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.Core.PresignedGetObject(ctx, m.Bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return u.String(), nil
}

func (m *MinioClient) ObjectExists(ctx context.Context, key string) (bool, error) {
	if _, err := m.Core.StatObject(ctx, m.Bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Health reports cluster state through the admin API, falling back to a bucket probe.
func (m *MinioClient) Health(ctx context.Context) (*StorageHealth, error) {
	health := &StorageHealth{Driver: "minio", Bucket: m.Bucket}

	if m.Admin != nil {
		info, err := m.Admin.ServerInfo(ctx)
		if err == nil {
			health.Mode = info.Mode
			health.TotalServers = len(info.Servers)
			for _, server := range info.Servers {
				if server.State == "online" {
					health.OnlineServers++
				}
			}
		}
	}

	exists, err := m.Core.BucketExists(ctx, m.Bucket)
	if err != nil {
		return health, fmt.Errorf("storage unreachable: %w", err)
	}
	health.Reachable = exists
	return health, nil
}

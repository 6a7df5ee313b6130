package repository

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/infra"
)

const uploadSessionKeyPrefix = "upload:session:"

// Cache is the part of infra.RedisClient the session repository relies on.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	AddToSetWithTTLOf(ctx context.Context, key, ttlKey string, members ...any) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}

// UploadSessionRepository keeps upload sessions in the cache, keyed by upload ID.
type UploadSessionRepository struct {
	cache Cache
}

func NewUploadSessionRepository(cache Cache) *UploadSessionRepository {
	return &UploadSessionRepository{cache: cache}
}

func UploadSessionKey(uploadID string) string {
	return uploadSessionKeyPrefix + uploadID
}

// UploadSessionPartsKey holds the set of signed part numbers next to the session itself.
func UploadSessionPartsKey(uploadID string) string {
	return UploadSessionKey(uploadID) + ":parts"
}

// Create stores a new session that expires after ttl.
func (r *UploadSessionRepository) Create(ctx context.Context, session *entity.UploadSession, ttl time.Duration) error {
	return r.cache.Set(ctx, UploadSessionKey(session.UploadID), session, ttl)
}

// AddPart records a signed part number. Concurrent calls for one session never overwrite
// each other and the part set expires with the session.
func (r *UploadSessionRepository) AddPart(ctx context.Context, uploadID string, partNumber int) error {
	err := r.cache.AddToSetWithTTLOf(ctx, UploadSessionPartsKey(uploadID), UploadSessionKey(uploadID), partNumber)
	if errors.Is(err, infra.ErrCacheMiss) {
		return ErrNotFound
	}
	return err
}

func (r *UploadSessionRepository) FindByID(ctx context.Context, uploadID string) (*entity.UploadSession, error) {
	var session entity.UploadSession
	if err := r.cache.Get(ctx, UploadSessionKey(uploadID), &session); err != nil {
		if errors.Is(err, infra.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	members, err := r.cache.SetMembers(ctx, UploadSessionPartsKey(uploadID))
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if !slices.Contains(session.UploadedPartNumbers, n) {
			session.UploadedPartNumbers = append(session.UploadedPartNumbers, n)
		}
	}
	slices.Sort(session.UploadedPartNumbers)
	return &session, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *UploadSessionRepository) Delete(ctx context.Context, uploadID string) error {
	return r.cache.Delete(ctx, UploadSessionKey(uploadID), UploadSessionPartsKey(uploadID))
}

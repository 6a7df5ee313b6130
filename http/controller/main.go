package controller

import (
	"context"

	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/repository"
	"github.com/tnqbao/gau-wiki-gateway/service/aggregator"
	"github.com/tnqbao/gau-wiki-gateway/service/file"
)

// WikiBackend forwards a call to one of the wiki backend services.
type WikiBackend interface {
	Call(ctx context.Context, service, method string, req any) (map[string]any, error)
}

type StorageProbe interface {
	Health(ctx context.Context) (*infra.StorageHealth, error)
}

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Files      *file.Service
	Enricher   *aggregator.Enricher
	Wiki       WikiBackend
	Storage    StorageProbe
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}

	upload := config.EnvConfig.Upload
	files := file.NewService(
		infra.ObjectStorage,
		repo.FileRepo,
		repo.UploadSessionRepo,
		infra.Produce.FileService,
		infra.Logger,
		file.Options{
			MaxFileSize:   upload.MaxFileSizeMB << 20,
			SessionTTL:    upload.SessionTTL,
			PartURLTTL:    upload.PartURLTTL,
			FileURLTTL:    upload.FileURLTTL,
			PublicBaseURL: config.EnvConfig.ObjectStore.PublicBaseURL,
		},
	)

	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Files:      files,
		Enricher:   aggregator.NewEnricher(infra.UserDirectory, infra.Logger),
		Wiki:       infra.WikiService,
		Storage:    infra.ObjectStorage,
	}
}

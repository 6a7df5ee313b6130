package infra

import (
	"context"
	"errors"
	"log"

	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/infra/produce"
)

type Infra struct {
	Redis                *RedisClient
	Postgres             *PostgresClient
	Logger               *LoggerClient
	Telemetry            *TelemetryClient
	RabbitMQ             *RabbitMQClient
	AuthorizationService *AuthorizationService
	Produce              *produce.Produce
	ObjectStorage        ObjectStorage
	AuthRPC              *RPCClient
	WikiRPC              *RPCClient
	UserDirectory        *UserDirectory
	WikiService          *WikiService
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	telemetry, err := InitTelemetry(context.Background(), cfg.EnvConfig)
	if err != nil {
		// Telemetry is optional; the service keeps running with no-op providers.
		log.Printf("Warning: Failed to initialize telemetry: %v", err)
		telemetry = &TelemetryClient{}
	}

	logger := InitLoggerClient(cfg.EnvConfig, telemetry.LoggerProvider)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	authorizationService := InitAuthorizationService(cfg.EnvConfig)
	if authorizationService == nil {
		panic("Failed to initialize Authorization service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	objectStorage := InitObjectStorage(cfg.EnvConfig)
	if objectStorage == nil {
		panic("Failed to initialize Object storage service")
	}

	authRPC, err := NewRPCClient(cfg.EnvConfig.ExternalService.AuthGRPCAddress, cfg.EnvConfig.ExternalService.RPCTimeout)
	if err != nil {
		panic("Failed to initialize Auth RPC client: " + err.Error())
	}

	wikiRPC, err := NewRPCClient(cfg.EnvConfig.ExternalService.WikiGRPCAddress, cfg.EnvConfig.ExternalService.RPCTimeout)
	if err != nil {
		panic("Failed to initialize Wiki RPC client: " + err.Error())
	}

	infraInstance = &Infra{
		Redis:                redis,
		Postgres:             postgres,
		Logger:               logger,
		Telemetry:            telemetry,
		RabbitMQ:             rabbitMQ,
		AuthorizationService: authorizationService,
		Produce:              produceService,
		ObjectStorage:        objectStorage,
		AuthRPC:              authRPC,
		WikiRPC:              wikiRPC,
		UserDirectory:        NewUserDirectory(authRPC),
		WikiService:          NewWikiService(wikiRPC),
	}

	return infraInstance
}

func (i *Infra) Close(ctx context.Context) error {
	var errs []error
	if i.AuthRPC != nil {
		errs = append(errs, i.AuthRPC.Close())
	}
	if i.WikiRPC != nil {
		errs = append(errs, i.WikiRPC.Close())
	}
	if i.RabbitMQ != nil {
		errs = append(errs, i.RabbitMQ.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Client.Close())
	}
	if i.Postgres != nil {
		errs = append(errs, i.Postgres.Close())
	}
	if i.Telemetry != nil {
		errs = append(errs, i.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

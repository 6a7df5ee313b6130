package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type EnvConfig struct {
	Postgres struct {
		Driver   string // postgres | sqlite
		HOST     string
		Database string
		Username string
		Password string
		Port     string
		SSLMode  string
		Path     string // sqlite file, used when Driver == "sqlite"
	}
	JWT struct {
		SecretKey string
		Algorithm string
	}
	CORS struct {
		AllowDomains string
		GlobalDomain string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	ObjectStore struct {
		Driver    string // minio | s3
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		Region    string
		UseSSL    bool
		// PublicBaseURL, when set, is used to build plain object URLs instead of presigned ones.
		PublicBaseURL string
	}
	Upload struct {
		MaxFileSizeMB int64
		SessionTTL    time.Duration
		PartURLTTL    time.Duration
		FileURLTTL    time.Duration
	}
	ExternalService struct {
		AuthorizationServiceURL string
		AuthGRPCAddress         string
		WikiGRPCAddress         string
		RPCTimeout              time.Duration
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Log struct {
		Level string
		File  string
	}
	PrivateKey string

	Environment struct {
		Mode  string
		Group string
	}
	Port string
}

// Defaults are keyed by the environment variable name.
var Defaults = map[string]any{
	"DB_DRIVER":         "postgres",
	"PGPOOL_PORT":       "5432",
	"PGPOOL_SSLMODE":    "disable",
	"SQLITE_PATH":       "gau-wiki-gateway.db",
	"JWT_ALGORITHM":     "HS256",
	"REDIS_HOST":        "localhost",
	"REDIS_PORT":        "6379",
	"REDIS_DB":          0,
	"RABBITMQ_HOST":     "localhost",
	"RABBITMQ_PORT":     "5672",
	"RABBITMQ_USER":     "guest",
	"RABBITMQ_PASSWORD": "guest",

	"OSS_DRIVER":   "minio",
	"OSS_BUCKET":   "wiki-files",
	"OSS_REGION":   "us-east-1",
	"OSS_USE_SSL":  false,
	"OSS_ENDPOINT": "",

	"MAX_FILE_SIZE_MB":      100,
	"UPLOAD_SESSION_TTL":    "24h",
	"UPLOAD_PART_URL_TTL":   "1h",
	"UPLOAD_FILE_URL_TTL":   "168h",
	"GRPC_ADDRESS":          "localhost:50051",
	"WIKI_GRPC_ADDRESS":     "localhost:50052",
	"RPC_TIMEOUT":           "10s",
	"SERVICE_NAME":          "gau-wiki-gateway",
	"LOG_LEVEL":             "info",
	"DEPLOY_ENV":            "development",
	"GROUP_NAME":            "local",
	"PORT":                  "8080",
	"GRAFANA_OTLP_ENDPOINT": "",
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	// A missing config.yaml is fine, env vars and defaults still apply.
	_ = v.ReadInConfig()
	return v
}

func LoadEnvConfig() *EnvConfig {
	v := newViper()
	var config EnvConfig

	// Postgres
	config.Postgres.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	config.Postgres.HOST = v.GetString("PGPOOL_HOST")
	config.Postgres.Database = v.GetString("PGPOOL_DB")
	config.Postgres.Username = v.GetString("PGPOOL_USER")
	config.Postgres.Password = v.GetString("PGPOOL_PASSWORD")
	config.Postgres.Port = v.GetString("PGPOOL_PORT")
	config.Postgres.SSLMode = v.GetString("PGPOOL_SSLMODE")
	config.Postgres.Path = v.GetString("SQLITE_PATH")

	// JWT
	config.JWT.SecretKey = v.GetString("JWT_SECRET_KEY")
	config.JWT.Algorithm = v.GetString("JWT_ALGORITHM")

	config.CORS.AllowDomains = v.GetString("ALLOWED_DOMAINS")
	config.CORS.GlobalDomain = v.GetString("GLOBAL_DOMAIN")

	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.Database = v.GetInt("REDIS_DB")
	config.Redis.RedisHost = v.GetString("REDIS_HOST")
	config.Redis.RedisPort = v.GetString("REDIS_PORT")

	// RabbitMQ
	config.RabbitMQ.Host = v.GetString("RABBITMQ_HOST")
	config.RabbitMQ.Port = v.GetString("RABBITMQ_PORT")
	config.RabbitMQ.Username = v.GetString("RABBITMQ_USER")
	config.RabbitMQ.Password = v.GetString("RABBITMQ_PASSWORD")

	// Object storage
	config.ObjectStore.Driver = strings.ToLower(v.GetString("OSS_DRIVER"))
	config.ObjectStore.Endpoint = v.GetString("OSS_ENDPOINT")
	config.ObjectStore.AccessKey = v.GetString("OSS_ACCESS_KEY_ID")
	config.ObjectStore.SecretKey = v.GetString("OSS_ACCESS_KEY_SECRET")
	config.ObjectStore.Bucket = v.GetString("OSS_BUCKET")
	config.ObjectStore.Region = v.GetString("OSS_REGION")
	config.ObjectStore.UseSSL = v.GetBool("OSS_USE_SSL")
	config.ObjectStore.PublicBaseURL = strings.TrimSuffix(v.GetString("OSS_PUBLIC_BASE_URL"), "/")

	// Upload
	config.Upload.MaxFileSizeMB = v.GetInt64("MAX_FILE_SIZE_MB")
	if config.Upload.MaxFileSizeMB <= 0 {
		config.Upload.MaxFileSizeMB = 100
	}
	config.Upload.SessionTTL = durationOr(v.GetDuration("UPLOAD_SESSION_TTL"), 24*time.Hour)
	config.Upload.PartURLTTL = durationOr(v.GetDuration("UPLOAD_PART_URL_TTL"), time.Hour)
	config.Upload.FileURLTTL = durationOr(v.GetDuration("UPLOAD_FILE_URL_TTL"), 7*24*time.Hour)

	config.PrivateKey = v.GetString("PRIVATE_KEY")

	config.ExternalService.AuthorizationServiceURL = v.GetString("AUTHORIZATION_SERVICE_URL")
	config.ExternalService.AuthGRPCAddress = v.GetString("GRPC_ADDRESS")
	config.ExternalService.WikiGRPCAddress = v.GetString("WIKI_GRPC_ADDRESS")
	config.ExternalService.RPCTimeout = durationOr(v.GetDuration("RPC_TIMEOUT"), 10*time.Second)

	// Grafana/OpenTelemetry
	grafanaEndpoint := v.GetString("GRAFANA_OTLP_ENDPOINT")
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	grafanaEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	config.Grafana.ServiceName = v.GetString("SERVICE_NAME")

	config.Log.Level = strings.ToLower(v.GetString("LOG_LEVEL"))
	config.Log.File = v.GetString("LOG_FILE")

	config.Environment.Mode = v.GetString("DEPLOY_ENV")
	config.Environment.Group = v.GetString("GROUP_NAME")

	config.Port = v.GetString("PORT")

	return &config
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

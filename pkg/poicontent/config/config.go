// Package config loads server configuration from the environment and builds
// the fully wired service from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archeomap/poi-content/pkg/poicontent"
	repomemory "github.com/archeomap/poi-content/pkg/poicontent/repo/memory"
	repopg "github.com/archeomap/poi-content/pkg/poicontent/repo/postgres"
	fsstorage "github.com/archeomap/poi-content/pkg/poicontent/storage/fs"
	memorystorage "github.com/archeomap/poi-content/pkg/poicontent/storage/memory"
	s3storage "github.com/archeomap/poi-content/pkg/poicontent/storage/s3"
	"github.com/archeomap/poi-content/pkg/poicontent/token"
)

// ServerConfig is the environment-driven configuration of the server binary.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// DatabaseURL selects the repository. Empty means in-memory; a postgres
	// URL switches rows and token issuance to the database.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	// StorageType selects the uploaded-file store: "fs", "s3" or "memory".
	StorageType string `env:"STORAGE_TYPE" env-default:"fs"`

	// ContentsDir is the fs store's directory, also served under /contents/.
	ContentsDir string `env:"CONTENTS_DIR" env-default:"./contents"`

	// TokenFile persists the upload-token counter when no database backs it.
	TokenFile string `env:"TOKEN_FILE" env-default:"./contents/.token"`

	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" env-default:"67108864"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT" env-default:"2m"`

	S3 S3Config
}

// S3Config configures the s3 store. Endpoint and path-style exist for
// MinIO-compatible deployments.
type S3Config struct {
	Region                 string `env:"S3_REGION" env-default:"us-east-1"`
	Bucket                 string `env:"S3_BUCKET" env-default:""`
	AccessKeyID            string `env:"S3_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey        string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	Endpoint               string `env:"S3_ENDPOINT" env-default:""`
	UsePathStyle           bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucketIfNotExist bool   `env:"S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.StorageType {
	case "fs", "s3", "memory":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	if c.StorageType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3_bucket is required when using s3 storage")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}

	return nil
}

// BuildService wires the repository, file store and token issuer into a
// service. With a postgres database both rows and token issuance live in the
// database; otherwise rows are in-memory and the counter is file-backed.
func (c *ServerConfig) BuildService(ctx context.Context) (poicontent.Service, error) {
	repo, issuer, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build file store: %w", err)
	}

	return poicontent.New(
		poicontent.WithRepository(repo),
		poicontent.WithFileStore(store),
		poicontent.WithTokenIssuer(issuer),
	)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (poicontent.Repository, token.Issuer, error) {
	if c.DatabaseURL == "" {
		issuer, err := token.NewFileIssuer(c.TokenFile)
		if err != nil {
			return nil, nil, err
		}
		return repomemory.New(), issuer, nil
	}

	poolCfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	repo := repopg.NewWithPool(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return repo, repopg.NewIssuer(pool), nil
}

func (c *ServerConfig) buildFileStore() (poicontent.FileStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.ContentsDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// StaticDir reports the directory to serve under /contents/, empty when the
// configured store has no local directory to expose.
func (c *ServerConfig) StaticDir() string {
	if c.StorageType == "fs" {
		return c.ContentsDir
	}
	return ""
}

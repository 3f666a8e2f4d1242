package main

import (
	"context"
	"flag"

	"stashfs/pkg/account"
	"stashfs/pkg/blob"
	"stashfs/pkg/config"
	"stashfs/pkg/fileservice"
	"stashfs/pkg/log"
	"stashfs/pkg/metadata"
	"stashfs/pkg/quota"
	"stashfs/pkg/server"
	"stashfs/pkg/share"
)

const version = "0.1.0"

func main() {
	// Initialize logger first
	_ = log.Logger

	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Logging.Level == "debug" {
		log.SetDebugMode()
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Blob.Type).Msg("Failed to create blob store")
	}

	meta, err := metadata.NewStore(cfg.Metadata.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Metadata.Path).Msg("Failed to open metadata store")
	}
	defer func() {
		if err := meta.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close metadata store")
		}
	}()

	accountant := quota.NewAccountant(meta)
	files := fileservice.NewService(blobs, meta, accountant)
	shares := share.NewIssuer(meta, cfg.Share.Origin)
	accounts := account.NewService(meta, blobs)

	srv := server.New(files, shares, accounts, cfg.Server.ShutdownTimeout, version)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func newBlobStore(cfg *config.Config) (blob.Store, error) {
	if cfg.Blob.Type == "memory" {
		return blob.NewMemoryStore(), nil
	}

	return blob.NewS3Store(context.Background(), blob.S3Config{
		Bucket:          cfg.Blob.S3.Bucket,
		Region:          cfg.Blob.S3.Region,
		Endpoint:        cfg.Blob.S3.Endpoint,
		KeyPrefix:       cfg.Blob.S3.KeyPrefix,
		AccessKeyID:     cfg.Blob.S3.AccessKeyID,
		SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
	})
}

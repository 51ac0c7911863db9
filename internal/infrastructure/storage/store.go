package storage

import (
	"context"

	"go.uber.org/zap"

	"campus-lending/internal/config"
	"campus-lending/internal/domain/contract"
)

// New picks S3 when a bucket is configured and the local contract directory
// otherwise.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (contract.Store, error) {
	if !cfg.UseS3() {
		log.Info("storing contracts on disk", zap.String("dir", cfg.ContractDir))
		return NewLocalStore(cfg.ContractDir)
	}
	log.Info("storing contracts in S3", zap.String("bucket", cfg.S3Bucket))
	return NewS3Store(ctx, S3Config{
		Endpoint:     cfg.S3Endpoint,
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		UsePathStyle: cfg.S3UsePathStyle,
	}, log)
}

package initializers

import (
	"context"
	"time"
	"travel-order-backend/config"
	filestorage "travel-order-backend/lib/file-storage"
	s3client "travel-order-backend/s3"

	log "github.com/sirupsen/logrus"
)

// InitS3 wires the object storage; without an endpoint files are kept in memory.
func InitS3() {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 endpoint is not configured, files are kept in memory")
		filestorage.NewMemoryHandler()
		return
	}
	minioClient, err := s3client.NewClient(s3client.Params{
		Endpoint:        config.Conf.S3.Endpoint,
		AccessKeyID:     config.Conf.S3.AccessKeyID,
		SecretAccessKey: config.Conf.S3.SecretAccessKey,
		UseSSL:          *config.Conf.S3.UseSSL,
	})
	if err != nil {
		panic(err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).Error("S3 connection failed, bucket check returned an error")
	}

	s3client.Client = minioClient
	filestorage.NewS3Handler(minioClient, config.Conf.S3.BucketName)
	log.Info("S3 client initialized")
}

package initializers

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"cpm-backend/config"
	s3client "cpm-backend/s3"
)

func InitS3() {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV2(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("S3 client initialization failed")
		return
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, config.Conf.S3.BucketName)
	if err != nil {
		log.WithError(err).Error("S3 connection check failed")
	} else if !exists {
		if err = minioClient.MakeBucket(ctx, config.Conf.S3.BucketName, minio.MakeBucketOptions{}); err != nil {
			log.WithError(err).Error("S3 bucket creation failed")
		}
	}

	s3client.Client = minioClient
	log.Info("S3 client initialized")
}

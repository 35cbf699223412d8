package filestorage

import (
	"bytes"
	"context"
	"io"
	"travel-order-backend/lib/utils/helpers"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func NewS3Handler(client *minio.Client, bucketName string) {
	Instance = NewS3Instance(client, bucketName)
}

func NewS3Instance(client *minio.Client, bucketName string) Provider {
	return &s3Impl{
		client:     client,
		bucketName: bucketName,
	}
}

type s3Impl struct {
	client     *minio.Client
	bucketName string
}

func (i s3Impl) Store(ctx context.Context, folder, fileName string, body []byte, contentType string) (string, error) {
	path := helpers.JoinPath(folder, fileName)
	if contentType == "" {
		contentType = helpers.DetectContentType(fileName, body)
	}
	_, err := i.client.PutObject(ctx, i.bucketName, path, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file to s3")
	}
	log.WithField("path", path).Debug("file stored")
	return path, nil
}

func (i s3Impl) Exists(ctx context.Context, path string) (bool, error) {
	_, err := i.client.StatObject(ctx, i.bucketName, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to stat file in s3")
	}
	return true, nil
}

func (i s3Impl) Read(ctx context.Context, path string) ([]byte, error) {
	object, err := i.client.GetObject(ctx, i.bucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get file from s3")
	}
	defer object.Close()
	body, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to read file from s3")
	}
	return body, nil
}

func (i s3Impl) Delete(ctx context.Context, path string) error {
	err := i.client.RemoveObject(ctx, i.bucketName, path, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to delete file from s3")
	}
	return nil
}

package s3client

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"miniflow-backend/config"
)

var Instance Provider

type Provider interface {
	MakeBucket(ctx context.Context) error
	UploadObject(ctx context.Context, objectKey, contentType string, body []byte) error
	GetObject(ctx context.Context, objectKey string) ([]byte, error)
	RemoveObject(ctx context.Context, objectKey string) error
}

type s3client struct {
	minioClient *minio.Client
}

func Connect(ctx context.Context) error {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return err
	}
	client := &s3client{minioClient: minioClient}
	if err = client.MakeBucket(ctx); err != nil {
		return err
	}
	Instance = client
	return nil
}

func (s s3client) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	location := "us-east-1"
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = s.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	return nil
}

func (s s3client) UploadObject(ctx context.Context, objectKey, contentType string, body []byte) error {
	reader := bytes.NewReader(body)
	_, err := s.minioClient.PutObject(ctx, config.Conf.S3.BucketName, objectKey, reader, int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s s3client) GetObject(ctx context.Context, objectKey string) ([]byte, error) {
	object, err := s.minioClient.GetObject(ctx, config.Conf.S3.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	return io.ReadAll(object)
}

func (s s3client) RemoveObject(ctx context.Context, objectKey string) error {
	return s.minioClient.RemoveObject(ctx, config.Conf.S3.BucketName, objectKey, minio.RemoveObjectOptions{})
}

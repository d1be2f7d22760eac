package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
)

type S3Storage struct {
	client *s3.S3
	bucket string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.Storage.S3.AccessKey, cfg.Storage.S3.SecretKey, ""),
		Endpoint:         aws.String(cfg.Storage.S3.Endpoint),
		Region:           aws.String(cfg.Storage.S3.Region),
		DisableSSL:       aws.Bool(!cfg.Storage.S3.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}

	return &S3Storage{
		client: s3.New(sess),
		bucket: cfg.Storage.S3.Bucket,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, data io.Reader) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   aws.ReadSeekCloser(data),
	})
	return err
}

func (s *S3Storage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	err := s.client.ListObjectsV2PagesWithContext(ctx, input,
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, object := range page.Contents {
				keys = append(keys, aws.StringValue(object.Key))
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

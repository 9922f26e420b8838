package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3 struct {
	client  s3API
	bucket  string
	baseURL string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewS3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3WithClient(client, opts), nil
}

func newS3WithClient(client s3API, opts S3Options) *S3 {
	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", opts.Bucket, opts.Region)
	if opts.Endpoint != "" {
		baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket + "/"
	}
	return &S3{client: client, bucket: opts.Bucket, baseURL: baseURL}
}

func (s *S3) Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(folder, filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("storage.S3.Save %s: %w", key, err)
	}
	return s.baseURL + key, nil
}

func (s *S3) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || key == "" {
		return fmt.Errorf("storage.S3.Delete: %q is not in bucket %s", url, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage.S3.Delete %s: %w", key, err)
	}
	return nil
}

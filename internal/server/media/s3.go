package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config describes an S3-compatible endpoint such as MinIO.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	Expiry       time.Duration
}

// S3Store presigns GET requests for objects in one bucket.
type S3Store struct {
	bucket  string
	expiry  time.Duration
	presign *s3.PresignClient
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey, c.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	expiry := c.Expiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &S3Store{bucket: c.Bucket, expiry: expiry, presign: s3.NewPresignClient(client)}, nil
}

// Resolve presigns references of the form s3://<bucket>/<key> when the
// bucket is the configured one.
func (s *S3Store) Resolve(ctx context.Context, ref string) (string, error) {
	key, ok := s.objectKey(ref)
	if !ok {
		return ref, nil
	}

	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign error: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) objectKey(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "s3://") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host != s.bucket {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, "/")
	return key, key != ""
}

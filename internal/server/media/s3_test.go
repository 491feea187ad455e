package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *S3Store {
	t.Helper()
	s, err := NewS3Store(context.Background(), S3Config{
		AccessKey:    "minio",
		SecretKey:    "minio123",
		Bucket:       "videotube",
		Region:       "us-east-1",
		BaseEndpoint: "http://localhost:9000",
		Expiry:       5 * time.Minute,
	})
	require.NoError(t, err)
	return s
}

func TestPassthrough(t *testing.T) {
	got, err := Passthrough{}.Resolve(context.Background(), "https://cdn/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.png", got)
}

func TestS3Store_ResolvePresignsBucketObjects(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Resolve(context.Background(), "s3://videotube/avatars/alice.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "http://localhost:9000/videotube/avatars/alice.png?"), got)
	assert.Contains(t, got, "X-Amz-Signature=")
	assert.Contains(t, got, "X-Amz-Expires=300")
}

func TestS3Store_ResolveLeavesOtherReferences(t *testing.T) {
	s := newTestStore(t)

	for _, ref := range []string{
		"https://cdn.example.com/a.png",
		"s3://other-bucket/a.png",
		"s3://videotube/",
		"",
	} {
		got, err := s.Resolve(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}
}

func TestS3Store_PresignError(t *testing.T) {
	s := newTestStore(t)

	orig := presignGetObject
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("signer down")
	}
	defer func() { presignGetObject = orig }()

	_, err := s.Resolve(context.Background(), "s3://videotube/a.png")
	assert.ErrorContains(t, err, "presign error: signer down")
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	defer func() { loadDefaultAWSConfig = orig }()

	_, err := NewS3Store(context.Background(), S3Config{Bucket: "b"})
	assert.ErrorContains(t, err, "aws config error")
}

func TestResolversSatisfyInterface(t *testing.T) {
	var _ Resolver = Passthrough{}
	var _ Resolver = (*S3Store)(nil)
}

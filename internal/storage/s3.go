package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var _ ObjectStore = (*S3Store)(nil)

// s3API is the subset of *s3.Client used by S3Store.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the object in an S3-compatible bucket.
type S3Store struct {
	client s3API
	bucket string
	key    string
}

// S3Options configures NewS3Store.
type S3Options struct {
	KeyID    string
	Secret   string
	Endpoint string // host name or full URL; https:// is assumed when no scheme is given
	Region   string
	Bucket   string
	Key      string
}

// NewS3Store creates a store using static credentials and path-style
// addressing, which S3-compatible providers require.
func NewS3Store(opts S3Options) *S3Store {
	endpoint := opts.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	client := s3.New(s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.KeyID, opts.Secret, ""),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})
	return &S3Store{client: client, bucket: opts.Bucket, key: opts.Key}
}

// Get downloads the object.
func (s *S3Store) Get(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("s3 get %s: %w", s.Location(), err)
	}
	defer out.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", s.Location(), err)
	}
	return data, nil
}

// Put uploads data, replacing any previous object.
func (s *S3Store) Put(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", s.Location(), err)
	}
	return nil
}

// Location returns the s3:// URI of the object.
func (s *S3Store) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func isS3NotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louslist/internal/domain"
)

// memS3 is an in-memory s3API keyed by bucket/key.
type memS3 struct {
	objects map[string][]byte
	putErr  error
}

func (m *memS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_GetPut(t *testing.T) {
	mem := &memS3{objects: map[string][]byte{}}
	s := &S3Store{client: mem, bucket: "courses", key: "cache/data.csv"}
	ctx := context.Background()

	_, err := s.Get(ctx)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	require.NoError(t, s.Put(ctx, []byte("Title\nCalculus\n")))
	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Title\nCalculus\n", string(got))
	assert.Equal(t, "s3://courses/cache/data.csv", s.Location())
}

func TestS3Store_PutError(t *testing.T) {
	s := &S3Store{client: &memS3{objects: map[string][]byte{}, putErr: errors.New("access denied")}, bucket: "b", key: "k"}

	err := s.Put(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Store_Location(t *testing.T) {
	s := NewS3Store(S3Options{KeyID: "k", Secret: "s", Endpoint: "fsn1.example.com", Region: "eu-central", Bucket: "b", Key: "data.csv"})
	assert.Equal(t, "s3://b/data.csv", s.Location())
}

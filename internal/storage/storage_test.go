package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	created int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.types[*in.Key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   aws.String(f.types[*in.Key]),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.buckets[*in.Bucket] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.buckets[*in.Bucket] = true
	f.created++
	return &s3.CreateBucketOutput{}, nil
}

func TestS3StoreLifecycle(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "jobzee", "http://localhost:9000/", zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx))
	assert.Equal(t, 1, fake.created, "bucket is created once")

	require.NoError(t, s.Put(ctx, "resumes/1/cv.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))
	obj, err := s.Get(ctx, "resumes/1/cv.pdf")
	require.NoError(t, err)
	defer obj.Body.Close()
	body, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "%PDF", string(body))
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.EqualValues(t, 4, obj.Size)

	assert.Equal(t, "http://localhost:9000/jobzee/resumes/1/cv.pdf", s.URL("resumes/1/cv.pdf"))
	key, ok := s.Key("http://localhost:9000/jobzee/resumes/1/cv.pdf")
	assert.True(t, ok)
	assert.Equal(t, "resumes/1/cv.pdf", key)
	_, ok = s.Key("http://localhost:9000/other-bucket/resumes/1/cv.pdf")
	assert.False(t, ok, "foreign bucket")

	require.NoError(t, s.Delete(ctx, "resumes/1/cv.pdf"))
	_, err = s.Get(ctx, "resumes/1/cv.pdf")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "https://s3.example.com", endpointURL("https://s3.example.com", false))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("http://files.local/")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "resumes/2/my cv.docx", strings.NewReader("doc"), -1, "application/msword"))
	assert.Equal(t, "http://files.local/resumes/2/my%20cv.docx", s.URL("resumes/2/my cv.docx"))
	key, ok := s.Key("http://files.local/resumes/2/my%20cv.docx")
	assert.True(t, ok)
	assert.Equal(t, "resumes/2/my cv.docx", key)
	_, ok = s.Key("https://cdn.example.com/cv.pdf")
	assert.False(t, ok)
	_, ok = s.Key("")
	assert.False(t, ok)
	assert.Len(t, s.Keys(), 1)

	obj, err := s.Get(ctx, "resumes/2/my cv.docx")
	require.NoError(t, err)
	assert.EqualValues(t, 3, obj.Size)

	require.NoError(t, s.Delete(ctx, "resumes/2/my cv.docx"))
	_, err = s.Get(ctx, "resumes/2/my cv.docx")
	assert.ErrorIs(t, err, ErrNotFound)
}

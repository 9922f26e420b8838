package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	orig := nowFunc
	t.Cleanup(func() { nowFunc = orig })
	nowFunc = func() time.Time { return time.UnixMilli(1700000000000) }

	key := ObjectKey("videos", "Intro Call.MP4")
	assert.Regexp(t, regexp.MustCompile(`^videos/1700000000000-[0-9a-f-]{36}-intro-call\.mp4$`), key)

	key = ObjectKey("therapists", "???.pdf")
	assert.True(t, strings.HasSuffix(key, "-file.pdf"), key)
}

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "videos", "clip.mp4", strings.NewReader("data"), 4, "video/mp4")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, LocalURLPrefix+"videos/"))

	path := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, LocalURLPrefix)))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), url), "deleting twice is not an error")
	assert.Error(t, store.Delete(context.Background(), "/uploads/../etc/passwd"))
	assert.Error(t, store.Delete(context.Background(), "https://elsewhere/x"))
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	del    *s3.DeleteObjectInput
	putErr error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.del = in
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_SaveAndDelete(t *testing.T) {
	fake := &fakeS3{}
	store := newS3WithClient(fake, S3Options{Bucket: "media", Region: "eu-west-1", Endpoint: "http://minio:9000/"})

	url, err := store.Save(context.Background(), "videos", "clip.mp4", strings.NewReader("data"), 4, "video/mp4")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://minio:9000/media/videos/"), url)

	require.NotNil(t, fake.put)
	assert.Equal(t, "media", aws.ToString(fake.put.Bucket))
	assert.Equal(t, int64(4), aws.ToInt64(fake.put.ContentLength))
	assert.Equal(t, "video/mp4", aws.ToString(fake.put.ContentType))
	key := aws.ToString(fake.put.Key)

	require.NoError(t, store.Delete(context.Background(), url))
	assert.Equal(t, key, aws.ToString(fake.del.Key))

	assert.Error(t, store.Delete(context.Background(), "/uploads/videos/x.mp4"))
}

func TestS3_SaveError(t *testing.T) {
	boom := errors.New("boom")
	store := newS3WithClient(&fakeS3{putErr: boom}, S3Options{Bucket: "media", Region: "eu-west-1"})

	_, err := store.Save(context.Background(), "videos", "clip.mp4", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/", store.baseURL)
}

func TestNewS3_AppliesRegionAndCredentials(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}

	store, err := NewS3(context.Background(), S3Options{
		Bucket: "media", Region: "us-east-1", AccessKey: "k", SecretKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "media", store.bucket)
}

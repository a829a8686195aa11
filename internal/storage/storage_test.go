package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sportaccessories/storefront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantExt     string
		wantErr     error
	}{
		{name: "PNG", contentType: "image/png", size: 100, wantExt: ".png"},
		{name: "JPEG", contentType: "image/jpeg", size: 100, wantExt: ".jpg"},
		{name: "PDF rejected", contentType: "application/pdf", size: 100, wantErr: ErrInvalidFileType},
		{name: "Too large", contentType: "image/png", size: 2048, wantErr: ErrFileTooLarge},
		{name: "Empty", contentType: "image/png", size: 0, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ValidateImage(tt.contentType, tt.size, 1024)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "products/1/a.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/1/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "products", "1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStorage_Save_RejectsOversizedBody(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "big.png", "image/png", strings.NewReader("0123456789"), 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, statErr := os.Stat(filepath.Join(dir, "big.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_Save_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "../../escape.png", "image/png", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.png", url)
	assert.FileExists(t, filepath.Join(dir, "uploads", "escape.png"))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Storage_Save(t *testing.T) {
	putter := &fakePutter{}
	store := &S3Storage{client: putter, bucket: "bucket", region: "us-east-1"}

	url, err := store.Save(context.Background(), "products/1/x.png", "image/png", strings.NewReader("img"), 3)
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.s3.us-east-1.amazonaws.com/products/1/x.png", url)
	assert.Equal(t, "bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "img", putter.body)
}

func TestS3Storage_Save_BaseURLAndError(t *testing.T) {
	store := &S3Storage{client: &fakePutter{}, bucket: "bucket", baseURL: "https://cdn.example.com"}
	url, err := store.Save(context.Background(), "k.png", "image/png", strings.NewReader("i"), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/k.png", url)

	failing := &S3Storage{client: &fakePutter{err: errors.New("denied")}, bucket: "bucket"}
	_, err = failing.Save(context.Background(), "k.png", "image/png", strings.NewReader("i"), 1)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	local, err := New(context.Background(), config.StorageConfig{Driver: "local", UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, local)

	s3Store, err := New(context.Background(), config.StorageConfig{Driver: "s3", S3: config.S3Config{Region: "us-east-1", Bucket: "b", AccessKeyID: "id", SecretAccessKey: "secret"}})
	require.NoError(t, err)
	assert.IsType(t, &S3Storage{}, s3Store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}

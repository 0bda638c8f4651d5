package firebase

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"collabuu-backend/logging"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

const publicURLPrefix = "https://storage.googleapis.com/"

// StorageClient abstracts Firebase Storage operations for dependency injection and testing.
type StorageClient interface {
	UploadDealImage(ctx context.Context, file multipart.File, filename, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

type FirebaseStorageClient struct {
	app    *firebase.App
	bucket string
}

func NewStorageClient(app *firebase.App, bucket string) StorageClient {
	return &FirebaseStorageClient{app: app, bucket: bucket}
}

func (f *FirebaseStorageClient) bucketHandle(ctx context.Context) (*storage.BucketHandle, error) {
	if f.app == nil {
		return nil, fmt.Errorf("firebase app not initialized")
	}
	if f.bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}
	client, err := f.app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(f.bucket)
}

// UploadDealImage stores the image under deals/ and returns its public URL.
func (f *FirebaseStorageClient) UploadDealImage(ctx context.Context, file multipart.File, filename, contentType string) (string, error) {
	bucket, err := f.bucketHandle(ctx)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("deals/%d_%s", time.Now().Unix(), sanitizeFilename(filename))
	obj := bucket.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	// public so scanners can load the image without credentials
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		logging.For("firebase").Warn().Err(err).Str("object", objectPath).Msg("failed to set public ACL")
	}

	return PublicURL(f.bucket, objectPath), nil
}

func (f *FirebaseStorageClient) DeleteFile(ctx context.Context, objectPath string) error {
	bucket, err := f.bucketHandle(ctx)
	if err != nil {
		return err
	}
	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}
	logging.For("firebase").Info().Str("object", objectPath).Str("bucket", f.bucket).Msg("deleted file")
	return nil
}

func PublicURL(bucket, objectPath string) string {
	return publicURLPrefix + bucket + "/" + objectPath
}

// ObjectPath extracts the object path from a public storage URL.
func ObjectPath(url string) (string, error) {
	if !strings.HasPrefix(url, publicURLPrefix) {
		return "", fmt.Errorf("invalid URL")
	}
	parts := strings.SplitN(strings.TrimPrefix(url, publicURLPrefix), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid URL format")
	}
	return parts[1], nil
}

package handlers

import (
	"context"
	"mime/multipart"
)

type mockStorage struct {
	UploadDealImageFn func(file multipart.File, filename, contentType string) (string, error)
	DeleteFileFn      func(objectPath string) error
	DeleteFileCalls   []string
	UploadCallCount   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadDealImage(ctx context.Context, file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadDealImageFn != nil {
		return m.UploadDealImageFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/deals/test_image.jpg", nil
}

func (m *mockStorage) DeleteFile(ctx context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}

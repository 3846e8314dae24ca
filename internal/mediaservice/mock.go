package mediaservice

import (
	"context"
	"fmt"
	"sync"
)

// MockStore records uploads and deletes for tests instead of talking to an
// object store.
type MockStore struct {
	mu         sync.Mutex
	Uploads    []string
	Deletes    []string
	FailUpload bool
	FailDelete bool
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (s *MockStore) Upload(ctx context.Context, dataURI, folder string) (string, error) {
	if _, _, err := parseDataURI(dataURI); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpload {
		return "", ErrUploadFailed
	}

	url := fmt.Sprintf("https://media.test/%s/%d.png", folder, len(s.Uploads)+1)
	s.Uploads = append(s.Uploads, url)
	return url, nil
}

func (s *MockStore) Delete(ctx context.Context, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete {
		return fmt.Errorf("delete failed for %s", imageURL)
	}

	s.Deletes = append(s.Deletes, imageURL)
	return nil
}

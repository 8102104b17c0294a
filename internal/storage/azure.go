package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/sirupsen/logrus"
)

// AzureStorage keeps each value as a block blob in one container
type AzureStorage struct {
	client    *azblob.Client
	container string
}

var _ StorageInterface = (*AzureStorage)(nil)

// NewAzureStorage connects with the default Azure credential chain (managed
// identity in production, CLI login locally) and creates the container if needed
func NewAzureStorage(ctx context.Context, account, container string) (*AzureStorage, error) {
	if account == "" {
		return nil, errors.New("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := azblob.NewClient(fmt.Sprintf("https://%s.blob.core.windows.net/", account), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	s := &AzureStorage{client: client, container: container}
	if _, err := client.CreateContainer(ctx, container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("failed to create container %s: %w", container, err)
		}
	} else {
		logrus.Infof("Created blob container %s", container)
	}

	return s, nil
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func notFound(err error) bool {
	return bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound)
}

// Store uploads data, replacing any previous blob under key
func (s *AzureStorage) Store(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	ct := contentType(key)
	_, err := s.client.UploadBuffer(ctx, s.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &ct},
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", key, err)
	}

	logrus.Debugf("Stored %d bytes in blob %s/%s", len(data), s.container, key)
	return nil
}

// Retrieve downloads the blob under key
func (s *AzureStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the blob under key; a missing blob is not an error
func (s *AzureStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, key, nil)
	if err != nil && !notFound(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/colinmarc/hdfs/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const hdfsRoot = "/estately/listings"

type FileStorage struct {
	client  *hdfs.Client
	logger  *logrus.Logger
	tracer  trace.Tracer
	baseURL string
}

func New(logger *logrus.Logger, tracer trace.Tracer) (*FileStorage, error) {
	hdfsUri := os.Getenv("HDFS_URI")

	client, err := hdfs.New(hdfsUri)
	if err != nil {
		logger.Panic(err)
		return nil, err
	}

	return &FileStorage{
		client:  client,
		logger:  logger,
		tracer:  tracer,
		baseURL: os.Getenv("IMAGE_BASE_URL"),
	}, nil
}

func (fs *FileStorage) Close() {
	fs.client.Close()
}

func (fs *FileStorage) CreateDirectoriesStart() error {
	err := fs.client.MkdirAll(hdfsRoot, 0644)
	if err != nil {
		fs.logger.Println(err)
		return err
	}
	return nil
}

// SaveListingImage stores the image under a listing-scoped path and
// returns the public URL for the listing document.
func (fs *FileStorage) SaveListingImage(ctx context.Context, listingID, imageName string, content []byte) (string, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.SaveListingImage")
	defer span.End()

	folderPath := path.Join(hdfsRoot, listingID)
	imagePath := path.Join(folderPath, imageName)

	if err := fs.client.MkdirAll(folderPath, 0644); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error creating directory %s: %v", folderPath, err)
		return "", err
	}

	file, err := fs.client.Create(imagePath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error creating file %s: %v", imagePath, err)
		return "", err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			span.SetStatus(codes.Error, closeErr.Error())
			fs.logger.Printf("Error closing file: %v", closeErr)
		}
	}()

	if _, err := file.Write(content); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error writing file %s: %v", imagePath, err)
		return "", err
	}

	return fs.ImageURL(listingID, imageName), nil
}

func (fs *FileStorage) ReadListingImage(ctx context.Context, listingID, imageName string) ([]byte, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.ReadListingImage")
	defer span.End()

	imagePath := path.Join(hdfsRoot, listingID, imageName)
	content, err := fs.client.ReadFile(imagePath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error reading file %s: %v", imagePath, err)
		return nil, err
	}
	return content, nil
}

// DeleteListingImages removes every blob under the listing prefix.
// Individual failures are logged and skipped so one bad blob does not
// leave the rest behind.
func (fs *FileStorage) DeleteListingImages(ctx context.Context, listingID string) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.DeleteListingImages")
	defer span.End()

	folderPath := path.Join(hdfsRoot, listingID)
	entries, err := fs.client.ReadDir(folderPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for _, entry := range entries {
		imagePath := path.Join(folderPath, entry.Name())
		if err := fs.client.Remove(imagePath); err != nil {
			fs.logger.Printf("Error removing %s: %v", imagePath, err)
		}
	}

	if err := fs.client.Remove(folderPath); err != nil {
		fs.logger.Printf("Error removing directory %s: %v", folderPath, err)
	}
	return nil
}

func (fs *FileStorage) ImageURL(listingID, imageName string) string {
	return fmt.Sprintf("%s/listings/%s/%s", fs.baseURL, listingID, imageName)
}

package config

import (
	"context"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

const fileBucketName = "chat_files"

// FileStorage stores chat attachments in a GridFS bucket and hands back the
// URL path they are served from.
type FileStorage struct {
	bucket *gridfs.Bucket
}

func NewFileStorage(lc fx.Lifecycle, db *mongo.Database) (*FileStorage, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(fileBucketName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("File storage initialized")
			return nil
		},
	})
	return &FileStorage{bucket: bucket}, nil
}

// Upload streams the file into GridFS and returns the download URL path.
func (s *FileStorage) Upload(fileName string, source io.Reader) (string, error) {
	id, err := s.bucket.UploadFromStream(fileName, source)
	if err != nil {
		return "", err
	}
	return "/api/chat/files/" + id.Hex(), nil
}

// Download streams the stored file into w.
func (s *FileStorage) Download(fileID primitive.ObjectID, w io.Writer) error {
	_, err := s.bucket.DownloadToStream(fileID, w)
	return err
}

func (s *FileStorage) Delete(fileID primitive.ObjectID) error {
	return s.bucket.Delete(fileID)
}

package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cpm-backend/config"
	"cpm-backend/db"
	filesdbstorage "cpm-backend/lib/file-storage/storage"
	dbmodels "cpm-backend/models/db"
	s3client "cpm-backend/s3"
)

const shareLinkTTL = 24 * time.Hour

type Provider interface {
	UploadFile(ctx context.Context, projectID, documentID, fileName, contentType string, file []byte) (fileID string, err error)
	GetFile(ctx context.Context, fileID string) (data []byte, rec *dbmodels.FileStorage, err error)
	ShareLink(ctx context.Context, fileID string) (link string, err error)
	Delete(ctx context.Context, fileID string) error
	DeleteByDocument(ctx context.Context, documentID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		s3client: s3client.Client,
		store:    filesdbstorage.NewInstance(db.DB),
	}
}

type impl struct {
	s3client *minio.Client
	store    filesdbstorage.Provider
}

func (i impl) GetLogger(documentID string) *log.Entry {
	logger := log.
		WithField("document_id", documentID)
	return logger
}

// UploadFile stores the payload in object storage and records it. When
// object storage is down the payload goes to the local fallback
// directory instead and the row is marked Local, keeping uploads
// available during an outage.
func (i impl) UploadFile(ctx context.Context, projectID, documentID, fileName, contentType string, file []byte) (string, error) {
	logger := i.GetLogger(documentID)
	rec := dbmodels.FileStorage{
		BaseProjectModel: dbmodels.BaseProjectModel{
			ProjectID: projectID,
		},
		Name:        fileName,
		DocumentID:  documentID,
		ContentType: contentType,
		Size:        int64(len(file)),
	}
	fileID, err := i.store.SaveFile(rec)
	if err != nil {
		return "", err
	}
	_, err = i.s3client.PutObject(ctx, config.Conf.S3.BucketName, fileID, bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err == nil {
		return fileID, nil
	}
	logger.
		WithError(err).
		Warn("object storage upload failed, falling back to local disk")
	if localErr := i.saveLocal(fileID, file); localErr != nil {
		return "", errors.Wrap(err, "object storage upload failed and local fallback failed")
	}
	if err = i.store.Update(fileID, map[string]interface{}{"local": true}); err != nil {
		return "", err
	}
	return fileID, nil
}

func (i impl) GetFile(ctx context.Context, fileID string) ([]byte, *dbmodels.FileStorage, error) {
	rec, err := i.store.GetByID(fileID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, nil
	}
	if rec.Local {
		data, err := os.ReadFile(i.localPath(fileID))
		if err != nil {
			return nil, nil, errors.Wrap(err, "local fallback read failed")
		}
		return data, rec, nil
	}
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer object.Close()
	buf := bytes.Buffer{}
	if _, err = io.Copy(&buf, object); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), rec, nil
}

func (i impl) ShareLink(ctx context.Context, fileID string) (string, error) {
	rec, err := i.store.GetByID(fileID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	if rec.Local {
		return "", errors.New("file is on local fallback, no share link available")
	}
	url, err := i.s3client.PresignedGetObject(ctx, config.Conf.S3.BucketName, fileID, shareLinkTTL, nil)
	if err != nil {
		return "", err
	}
	link := url.String()
	if link != rec.ShareLink {
		if err = i.store.Update(fileID, map[string]interface{}{"share_link": link}); err != nil {
			return "", err
		}
	}
	return link, nil
}

// Delete removes a single stored file and its record. Used to clean up
// an upload whose enclosing database transaction rolled back.
func (i impl) Delete(ctx context.Context, fileID string) error {
	rec, err := i.store.GetByID(fileID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	if rec.Local {
		if err := os.Remove(i.localPath(fileID)); err != nil && !os.IsNotExist(err) {
			return err
		}
	} else if err := i.s3client.RemoveObject(ctx, config.Conf.S3.BucketName, fileID, minio.RemoveObjectOptions{}); err != nil {
		return err
	}
	return i.store.Delete(fileID)
}

func (i impl) DeleteByDocument(ctx context.Context, documentID string) error {
	logger := i.GetLogger(documentID)
	list, err := i.store.GetByDocument(documentID)
	if err != nil {
		return err
	}
	for _, rec := range list {
		if rec.Local {
			if err := os.Remove(i.localPath(rec.ID)); err != nil && !os.IsNotExist(err) {
				logger.WithError(err).Warn("local fallback file removal failed")
			}
			continue
		}
		err = i.s3client.RemoveObject(ctx, config.Conf.S3.BucketName, rec.ID, minio.RemoveObjectOptions{})
		if err != nil {
			logger.
				WithField("file_id", rec.ID).
				WithError(err).
				Warn("object storage removal failed")
		}
	}
	return i.store.DeleteByDocument(documentID)
}

func (i impl) saveLocal(fileID string, file []byte) error {
	dir := config.Conf.S3.LocalFallback
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(i.localPath(fileID), file, 0o644)
}

func (i impl) localPath(fileID string) string {
	return filepath.Join(config.Conf.S3.LocalFallback, fmt.Sprintf("%s.bin", fileID))
}

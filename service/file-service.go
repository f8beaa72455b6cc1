package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"inc/app_error"
	"inc/client"
	"inc/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const fileLinkTTL = 15 * time.Minute

// UploadedFile is a multipart upload spooled to a temporary file.
type UploadedFile struct {
	Path     string
	FileName string
	Mime     string
	Size     int64
}

type FileService struct {
	store          client.FileStore
	fileRepository *repository.FileRepository
}

func NewFileService(db *gorm.DB, store client.FileStore) *FileService {
	return &FileService{
		store:          store,
		fileRepository: repository.NewFileRepository(db),
	}
}

// Store uploads the member id document as a private object and records it for email
// through tx. The temporary file is removed whatever the outcome. A non-empty key is
// returned once the object exists, even with an error; callers Remove it when tx does
// not commit.
func (s *FileService) Store(ctx context.Context, tx *gorm.DB, email string, upload *UploadedFile) (string, error) {
	defer s.Discard(upload)
	if s.store == nil {
		return "", app_error.DependencyFailure(errors.New("file storage is not configured"))
	}
	f, err := os.Open(upload.Path)
	if err != nil {
		return "", app_error.DependencyFailure(err)
	}
	defer f.Close()

	resp, err := s.store.Upload(ctx, &client.UploadObject{
		Prefix:   "ids",
		FileName: upload.FileName,
		Mime:     upload.Mime,
		Body:     f,
	})
	if err != nil {
		return "", app_error.DependencyFailure(err)
	}
	err = s.fileRepository.WithTx(tx).Save(&repository.File{
		Email:     email,
		FileName:  upload.FileName,
		Size:      upload.Size,
		ObjectKey: resp.Key,
	})
	if err != nil {
		return resp.Key, app_error.DependencyFailure(err)
	}
	return resp.Key, nil
}

// Remove deletes an uploaded object. Failures are logged only.
func (s *FileService) Remove(ctx context.Context, key string) {
	if s == nil || s.store == nil || key == "" {
		return
	}
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.WithError(err).WithField("key", key).Warn("could not remove orphaned upload")
	}
}

func (s *FileService) Discard(upload *UploadedFile) {
	if upload == nil || upload.Path == "" {
		return
	}
	if err := os.Remove(upload.Path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).WithField("path", upload.Path).Warn("could not remove temporary upload")
	}
}

// Link turns a stored object key into a signed link. Values recorded before uploads
// became private are already links and are returned as is, and so is everything when
// there is no file service.
func (s *FileService) Link(key string) string {
	if s == nil || key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if s.store == nil {
		return ""
	}
	url, err := s.store.SignedURL(key, fileLinkTTL)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("could not sign file link")
		return ""
	}
	return url
}

// LinkMembers replaces the id document keys of members with signed links.
func (s *FileService) LinkMembers(members repository.Members) repository.Members {
	for i := range members {
		members[i].IDFile = s.Link(members[i].IDFile)
	}
	return members
}

func (s *FileService) GetFile(email string) (*repository.File, error) {
	file, err := s.fileRepository.GetFile(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("no file uploaded for %s", email)
		}
		return nil, app_error.DependencyFailure(err)
	}
	file.Url = s.Link(file.ObjectKey)
	return file, nil
}

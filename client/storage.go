package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"inc/config"
	"inc/metrics"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type UploadObject struct {
	Prefix   string
	FileName string
	Mime     string
	Body     io.Reader
}

type UploadResponse struct {
	Key string
}

// FileStore keeps member documents private; readers get short lived signed links.
type FileStore interface {
	Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	SignedURL(key string, ttl time.Duration) (string, error)
}

type S3FileStore struct {
	uploader *s3manager.Uploader
	client   *s3.S3
	// signer builds links against the public endpoint
	signer *s3.S3
	bucket string
}

func NewS3FileStore(cfg *config.Config) (*S3FileStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.S3Region),
		Credentials:      credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Endpoint:         aws.String(cfg.S3Endpoint),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	publicEndpoint := cfg.S3PublicEndpoint
	if publicEndpoint == "" {
		publicEndpoint = cfg.S3Endpoint
	}
	return &S3FileStore{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		signer:   s3.New(sess, &aws.Config{Endpoint: aws.String(strings.TrimSuffix(publicEndpoint, "/"))}),
		bucket:   cfg.S3Bucket,
	}, nil
}

func objectKey(prefix string, fileName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(fileName), " ", "_")
	return fmt.Sprintf("%s/%s-%s", prefix, uuid.NewString(), name)
}

func (s *S3FileStore) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	start := time.Now()
	defer func() { metrics.UploadDuration.Observe(time.Since(start).Seconds()) }()

	key := objectKey(object.Prefix, object.FileName)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        object.Body,
		ACL:         aws.String(s3.ObjectCannedACLPrivate),
		ContentType: aws.String(object.Mime),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, s.bucket, key)
	}
	return &UploadResponse{Key: key}, nil
}

func (s *S3FileStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w, bucket %s, key %s", err, s.bucket, key)
	}
	return nil
}

// SignedURL returns a GET link for key that expires after ttl.
func (s *S3FileStore) SignedURL(key string, ttl time.Duration) (string, error) {
	req, _ := s.signer.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("presign failed: %w, bucket %s, key %s", err, s.bucket, key)
	}
	return url, nil
}

package client

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"inc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("ids", " my aadhar.pdf ")
	assert.True(t, strings.HasPrefix(key, "ids/"))
	assert.True(t, strings.HasSuffix(key, "-my_aadhar.pdf"))
	assert.NotEqual(t, key, objectKey("ids", "my aadhar.pdf"))
}

func TestSignedURLUsesPublicEndpoint(t *testing.T) {
	store, err := NewS3FileStore(&config.Config{
		S3Endpoint:       "http://minio:9000",
		S3PublicEndpoint: "https://files.example.org/",
		S3Region:         "auto",
		S3Bucket:         "inc-ids",
		S3AccessKey:      "access",
		S3SecretKey:      "secret",
	})
	require.NoError(t, err)

	link, err := store.SignedURL("ids/abc-id.pdf", 15*time.Minute)
	require.NoError(t, err)
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "files.example.org", parsed.Host)
	assert.Equal(t, "/inc-ids/ids/abc-id.pdf", parsed.Path)
	assert.Equal(t, "900", parsed.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, parsed.Query().Get("X-Amz-Signature"))
}

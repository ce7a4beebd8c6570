package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.salon.fr", PublicBaseURL("https://cdn.salon.fr/", "b", "eu-west-3"))
	assert.Equal(t, "https://salon-img.s3.eu-west-3.amazonaws.com", PublicBaseURL("", "salon-img", "eu-west-3"))
}

func TestNewS3StoreDisabledWithoutBucket(t *testing.T) {
	assert.Nil(t, NewS3Store(&config.Config{AWSRegion: "eu-west-3"}))
	assert.NotNil(t, NewS3Store(&config.Config{AWSRegion: "eu-west-3", S3Bucket: "salon-img"}))
}

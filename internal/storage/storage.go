// Package storage keeps user-uploaded objects (avatars) on disk or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("storage: invalid object key")

// Storage stores objects under keys and serves them at public URLs.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a public URL back to its key, or "" if it is not ours.
	KeyFromURL(url string) string
}

type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

type Config struct {
	Type         Type
	LocalPath    string
	PublicURL    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		return NewLocalStorage(cfg.LocalPath, cfg.PublicURL)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// AvatarKey builds a unique key for a user's avatar, keeping the extension.
func AvatarKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}

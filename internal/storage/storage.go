// Package storage contains the object storage abstraction used for user
// avatars. Implementations stream data and never touch local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object store.
type Storage interface {
	// Put uploads an object under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that needs no credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// AllowedImageTypes maps accepted avatar content types to file extensions.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarKey returns a fresh object key for an avatar of userID. ok is false
// when contentType is not an accepted image type.
func AvatarKey(userID int64, contentType string) (key string, ok bool) {
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return "", false
	}
	return path.Join("avatars", strconv.FormatInt(userID, 10), uuid.NewString()+ext), true
}

// OwnsAvatar reports whether key was issued by AvatarKey for userID.
func OwnsAvatar(userID int64, key string) bool {
	dir, _ := path.Split(key)
	return dir == fmt.Sprintf("avatars/%d/", userID)
}

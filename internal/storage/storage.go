// Package storage hands out links to workout demo media kept in object storage.
package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultLinkExpiry is how long a presigned media link stays valid.
const DefaultLinkExpiry = 15 * time.Minute

var ErrEmptyKey = errors.New("storage: empty object key")

// MediaStore issues temporary download links for stored objects.
type MediaStore interface {
	// PresignDownloadURL returns a GET URL for objectKey valid for expires
	// (DefaultLinkExpiry when expires <= 0).
	PresignDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

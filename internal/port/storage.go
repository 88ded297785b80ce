package port

import "context"

// ObjectStorage abstracts the source-document store. The pipeline only
// reads documents; upload lifecycle belongs to the uploading collaborator.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}

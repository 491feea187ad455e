// Package media turns stored avatar and cover-image references into URLs a
// client can fetch. References are opaque strings; only "s3://bucket/key"
// references are rewritten, anything else is returned unchanged.
package media

import "context"

// Resolver maps a stored reference to a fetchable URL.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Passthrough returns references as stored. It is used when object storage
// is not configured.
type Passthrough struct{}

func (Passthrough) Resolve(ctx context.Context, ref string) (string, error) {
	return ref, nil
}

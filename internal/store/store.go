// Package store persists the console's JSON documents (upload queue, video
// library, campaigns) as opaque blobs keyed by name.
package store

import (
	"context"
)

// Well-known blob keys.
const (
	KeyUploadQueue = "uploadQueue"
	KeyVideoList   = "videoList"
	KeyCampaigns   = "campaigns"
)

// Blobs loads and saves whole documents. Load returns nil, nil for a key
// that was never saved.
type Blobs interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Settings is a small key/value table for operator preferences that survive
// restarts, such as the simulator pause flag.
type Settings interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

// Store is the full persistence surface of a backend.
type Store interface {
	Blobs
	Settings
	Close() error
}

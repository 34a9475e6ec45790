package domain

import (
	"io"
	"time"
)

// ObjectInfo is the metadata a storage backend reports for one object
type ObjectInfo struct {
	Key          string
	ETag         string
	ContentType  string
	Size         int64
	LastModified time.Time
}

// Object is a readable stored object. The caller must close Body.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// PutObject describes one upload in a fan-out batch
type PutObject struct {
	Position    StoragePosition
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
}

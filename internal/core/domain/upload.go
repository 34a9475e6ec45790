package domain

import (
	"time"

	"github.com/google/uuid"
)

// StagedFile is a file staged on local disk whose lifetime ends with Dispose.
// Dispose is idempotent and never blocks on the filesystem.
type StagedFile interface {
	Path() string
	Size() int64
	Dispose()
}

// StagedUpload is the outcome of consuming a multipart body
type StagedUpload struct {
	File        StagedFile
	ContentUUID uuid.UUID
	Key         string
	RawName     string
	ContentType string
	Size        int64
}

// UploadResult is produced once per successful ingest and becomes the metadata write payload
type UploadResult struct {
	PublicURL        string
	StorageKey       string
	ContentUUID      uuid.UUID
	OriginalFilename string
	ContentType      string
	IsPublic         bool
	OwnerID          *uuid.UUID
	ByteSize         int64
	Source           ImageSource
}

// PresignedGrant is a time boxed direct upload credential
type PresignedGrant struct {
	StorageKey string
	SignedURL  string
	ExpiresAt  time.Time
}

// PendingUploadStatus represents the status of a pending presigned upload
type PendingUploadStatus string

const (
	PendingUploadStatusPending   PendingUploadStatus = "pending"
	PendingUploadStatusConfirmed PendingUploadStatus = "confirmed"
	PendingUploadStatusExpired   PendingUploadStatus = "expired"
)

// PendingUpload links a caller to a presigned key until the upload is confirmed
type PendingUpload struct {
	StorageKey       string
	ContentUUID      uuid.UUID
	OwnerID          uuid.UUID
	OriginalFilename string
	ContentType      string
	DeclaredSize     int64
	Status           PendingUploadStatus
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

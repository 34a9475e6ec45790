package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageSource tells how the original reached storage
type ImageSource string

const (
	ImageSourceMultipart ImageSource = "multipart"
	ImageSourcePresigned ImageSource = "presigned"
)

// Image represents the durable metadata of one uploaded original
type Image struct {
	ID          int64
	UUID        uuid.UUID
	StorageKey  string
	RawName     string
	URL         string
	PreviewURL  string
	ContentType string
	Public      bool
	OwnerID     *uuid.UUID
	SizeBytes   int64
	Source      ImageSource
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VisibleTo reports whether the caller may read the image
func (i *Image) VisibleTo(identity *Identity) bool {
	if i.Public {
		return true
	}
	return identity != nil && i.OwnerID != nil && *i.OwnerID == identity.UserID
}

// ImagePage is one page of a caller's images
type ImagePage struct {
	Images []Image
	Page   int
	Pages  int
	Total  int
}

// Renditions are the encoded derivatives of one original
type Renditions struct {
	Thumbnail []byte
	Preview   []byte
}

// ViewURL is the public link of an original served under base
func ViewURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/api/view/" + key
}

// PreviewURL is where the thumbnail of image id is served
func PreviewURL(base string, id uuid.UUID) string {
	return strings.TrimRight(base, "/") + "/api/view/preview/" + DerivativeKeyFor(id)
}

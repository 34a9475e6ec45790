package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DerivativeExt is the extension of every generated rendition
const DerivativeExt = "webp"

// DerivativeContentType is the content type of every generated rendition
const DerivativeContentType = "image/webp"

// DerivativeKeyLen is the exact length of a rendition key: 36-char uuid + "." + "webp"
const DerivativeKeyLen = 36 + 1 + len(DerivativeExt)

const maxExtLen = 10

// NewObjectKey builds "<uuid>.<ext>", or "<uuid>." when ext is empty
func NewObjectKey(id uuid.UUID, ext string) string {
	return id.String() + "." + strings.ToLower(ext)
}

// DerivativeKeyFor returns the rendition key sharing the content uuid
func DerivativeKeyFor(id uuid.UUID) string {
	return NewObjectKey(id, DerivativeExt)
}

// ExtFromFilename extracts the extension of a client-declared filename, without the dot
func ExtFromFilename(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if len(ext) > maxExtLen || !isAlnum(ext) {
		return ""
	}
	return strings.ToLower(ext)
}

// ParseObjectKey validates a key addressed at position and returns its content uuid.
// Renditions must be exactly DerivativeKeyLen long and carry the rendition extension.
func ParseObjectKey(key string, position StoragePosition) (uuid.UUID, error) {
	if len(key) < 37 || key[36] != '.' {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	id, err := uuid.Parse(key[:36])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	ext := key[37:]

	switch position {
	case PositionPreview, PositionDerivative:
		if len(key) != DerivativeKeyLen || ext != DerivativeExt {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	default:
		if len(ext) > maxExtLen || !isAlnum(ext) {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return id, nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

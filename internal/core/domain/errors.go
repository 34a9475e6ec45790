package domain

import "errors"

// ErrBadRequest is an error thrown when the request is malformed or carries no file
var ErrBadRequest = errors.New("bad request")

// ErrInvalidFileType is an error thrown when file type is invalid
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrSizeMismatch is an error thrown when sizes mismatch
var ErrSizeMismatch = errors.New("size mismatch")

// ErrInvalidKey is an error thrown when a storage key is malformed
var ErrInvalidKey = errors.New("invalid storage key")

// ErrUnauthorized is an error thrown when the caller is not allowed to perform the operation
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is an error thrown when an image, a pending upload or an object is unknown
var ErrNotFound = errors.New("not found")

// ErrConflict is an error thrown when a pending upload was already confirmed
var ErrConflict = errors.New("conflict")

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrNotModified is returned by conditional fetches when the client copy is current
var ErrNotModified = errors.New("not modified")

// ErrInternal is an error thrown when an unexpected failure happened
var ErrInternal = errors.New("internal error")

// ErrIO is an error thrown when staging a file on local disk fails
var ErrIO = errors.New("io error")

// ErrDecode is an error thrown when an image cannot be decoded
var ErrDecode = errors.New("decode error")

// ErrEncode is an error thrown when a rendition cannot be encoded
var ErrEncode = errors.New("encode error")

// ErrObjectNotFound is an error thrown when the storage backend has no such key
var ErrObjectNotFound = errors.New("object not found")

// ErrStorageTransient is an error thrown on network or 5xx storage failures, retryable by the caller
var ErrStorageTransient = errors.New("transient storage error")

// ErrStorageFatal is an error thrown on storage auth or configuration failures
var ErrStorageFatal = errors.New("fatal storage error")

// ErrQueueFull is an error thrown when the job queue cannot accept more jobs
var ErrQueueFull = errors.New("job queue full")

// ErrQueueClosed is an error thrown when the job queue is shut down
var ErrQueueClosed = errors.New("job queue closed")

package common

import (
	"errors"
	"fmt"
	"strings"
)

// Operation kinds. One sentinel per operation family; a *StorageError
// matches its kind through errors.Is, so callers can write
// errors.Is(err, common.ErrUpload) without knowing the concrete type.
var (
	ErrUpload   = errors.New("upload failed")
	ErrDownload = errors.New("download failed")
	ErrList     = errors.New("listing failed")
	ErrDelete   = errors.New("deletion failed")
	ErrExists   = errors.New("existence check failed")
	ErrMetadata = errors.New("metadata retrieval failed")
)

// StorageError is the normalized form of a backend failure. Every SDK
// error is caught at the adapter boundary and wrapped into one of these;
// the underlying cause stays reachable through errors.Unwrap.
type StorageError struct {
	Kind    error
	Backend string
	Bucket  string
	Key     string
	Err     error
}

// NewStorageError wraps a backend failure with its operation kind and the
// object coordinates it concerned.
func NewStorageError(kind error, backend string, bucket string, key string, err error) *StorageError {
	return &StorageError{
		Kind:    kind,
		Backend: backend,
		Bucket:  bucket,
		Key:     key,
		Err:     err,
	}
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s: bucket %q: %v", e.Backend, e.Kind, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s: %s: object %q in bucket %q: %v", e.Backend, e.Kind, e.Key, e.Bucket, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == e.Kind
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError reports credential fields that could not be resolved at
// construction time. All missing fields are collected into a single
// error; resolution never fails one field at a time.
type ConfigError struct {
	Backend string
	// Missing holds the logical names of the unresolved fields,
	// e.g. "secret_access_key".
	Missing []string
	// EnvKeys holds the environment variables that would satisfy the
	// missing fields, in the same order.
	EnvKeys []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required parameters for %s: %s; "+
		"pass them explicitly or set the environment variables: %s",
		e.Backend, strings.Join(e.Missing, ", "), strings.Join(e.EnvKeys, ", "))
}

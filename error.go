package strata

import (
	"errors"

	"strata/internal/objstore"
	"strata/internal/snapio"
	"strata/meta"
)

var (
	ErrCommitConflict = errors.New("commit conflict: snapshot pointer kept advancing")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrTableExists    = errors.New("table already exists")
	ErrTableNotFound  = errors.New("table not found")
	ErrBatchShape     = errors.New("batch does not match table schema")

	ErrUnknownColumn     = meta.ErrUnknownColumn
	ErrInvalidSchema     = meta.ErrInvalidSchema
	ErrStorageRead       = objstore.ErrRead
	ErrStorageWrite      = objstore.ErrWrite
	ErrObjectNotExist    = objstore.ErrNotExist
	ErrSnapshotMalformed = snapio.ErrMalformed
)

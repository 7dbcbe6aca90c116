package meta

import "errors"

var (
	ErrInvalidSchema = errors.New("invalid schema")
	ErrUnknownColumn = errors.New("unknown column")
	ErrValueKind     = errors.New("value kind does not match column type")
)

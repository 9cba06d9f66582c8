package signatories

import "errors"

var (
	ErrNotFound   = errors.New("signatory not found")
	ErrConflict   = errors.New("signatory already attached to document")
	ErrWrongInput = errors.New("invalid signatory input")
)

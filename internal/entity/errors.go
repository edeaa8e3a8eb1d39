package entity

import "errors"

var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrNoImage        = errors.New("no image url for locale")
	ErrUnknownTab     = errors.New("unknown editor tab")
	ErrDialogNotFound = errors.New("dialog not found")
	ErrDialogClosed   = errors.New("dialog already closed")
	ErrWidgetNotFound = errors.New("field widget not found")
	ErrNoValue        = errors.New("field has no value")

	ErrInvalidInput = errors.New("invalid input")
)

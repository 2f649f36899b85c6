package services

import "errors"

// Upload errors
var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrNoFileSelected = errors.New("no file selected")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

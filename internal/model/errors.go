package model

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrFolderNotFound  = errors.New("folder not found")
	ErrWidgetNotFound  = errors.New("widget configuration not found")
)

package domain

import "errors"

var (
	ErrBackendUnavailable = errors.New("text-completion backend unavailable")
	ErrResponseParse      = errors.New("malformed backend response")
	ErrIndexBuild         = errors.New("index build failed")
	ErrIndexUnavailable   = errors.New("search index unavailable")
	ErrCatalogLoad        = errors.New("catalog load failed")
)

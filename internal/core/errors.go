package core

import (
	"github.com/git-pkgs/jsregistry/client"
)

// ErrNotFound is returned when a package or version is not found.
var ErrNotFound = client.ErrNotFound

// Error types shared with the client package.
type (
	HTTPError     = client.HTTPError
	NotFoundError = client.NotFoundError
	TimeoutError  = client.TimeoutError
)

// Error helpers shared with the client package.
var (
	IsNotFound = client.IsNotFound
	IsTimeout  = client.IsTimeout
	Describe   = client.Describe
)

package core

import (
	"github.com/git-pkgs/jsregistry/client"
)

// Type aliases used by registry implementations.
type (
	RateLimiter = client.RateLimiter
	Client      = client.Client
	Option      = client.Option
	URLBuilder  = client.URLBuilder
)

// Function aliases used by registry implementations.
var (
	DefaultClient = client.DefaultClient
	NewClient     = client.NewClient
	WithTimeout   = client.WithTimeout
	BuildURLs     = client.BuildURLs
)

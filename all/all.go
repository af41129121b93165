// Package all imports all supported registry implementations.
//
// Import this package for its side effects to register every registry:
//
//	import (
//		"github.com/git-pkgs/jsregistry"
//		_ "github.com/git-pkgs/jsregistry/all"
//	)
//
//	// Now all registries are available
//	kinds := jsregistry.SupportedRegistries()
//	// ["deno", "jsr", "npm"]
package all

import (
	_ "github.com/git-pkgs/jsregistry/internal/deno"
	_ "github.com/git-pkgs/jsregistry/internal/jsr"
	_ "github.com/git-pkgs/jsregistry/internal/npm"
)

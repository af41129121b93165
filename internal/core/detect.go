package core

import "strings"

// Detect guesses the registry a package name belongs to. Rules are checked in
// order and the first match wins:
//
//  1. "@scope/name" with exactly one slash is JSR. Scoped npm names match too;
//     callers that mean npm must pass the registry explicitly.
//  2. deno.land / nest.land URLs and any http(s) URL are Deno.
//  3. "jsr:" specifiers are JSR.
//  4. "npm:" specifiers are npm.
//  5. Everything else is npm.
func Detect(name string) Kind {
	switch {
	case isScoped(name):
		return JSR
	case strings.Contains(name, "deno.land"),
		strings.Contains(name, "nest.land"),
		strings.HasPrefix(name, "http://"),
		strings.HasPrefix(name, "https://"):
		return Deno
	case strings.HasPrefix(name, "jsr:"):
		return JSR
	case strings.HasPrefix(name, "npm:"):
		return NPM
	}
	return NPM
}

func isScoped(name string) bool {
	if !strings.HasPrefix(name, "@") || strings.Count(name, "/") != 1 {
		return false
	}
	scope, _, _ := strings.Cut(name, "/")
	return strings.HasPrefix(scope, "@")
}

// SplitScoped splits "@scope/name" into "scope" and "name". ok is false for
// unscoped names.
func SplitScoped(name string) (scope, pkg string, ok bool) {
	if !strings.HasPrefix(name, "@") {
		return "", name, false
	}
	scope, pkg, ok = strings.Cut(strings.TrimPrefix(name, "@"), "/")
	if !ok || scope == "" || pkg == "" {
		return "", name, false
	}
	return scope, pkg, true
}

// StripSpecifier removes a leading "jsr:" or "npm:" specifier prefix.
func StripSpecifier(name string) string {
	for _, prefix := range []string{"jsr:", "npm:"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

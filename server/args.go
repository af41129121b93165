package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/git-pkgs/jsregistry/internal/core"
)

// args holds decoded tool-call arguments. Values arrive from JSON, so numbers
// are float64; the CLI may pass everything as strings.
type args map[string]any

func (a args) str(name string) string {
	switch v := a[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (a args) required(name string) (string, error) {
	v := a.str(name)
	if v == "" {
		return "", fmt.Errorf("missing required argument: %s", name)
	}
	return v, nil
}

func (a args) boolean(name string) bool {
	switch v := a[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// limit returns the "limit" argument, core.DefaultLimit when absent or not a
// positive number.
func (a args) limit() (int, error) {
	var n int
	switch v := a["limit"].(type) {
	case nil:
		return core.DefaultLimit, nil
	case float64:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid limit: %q", v)
		}
		n = int(i)
	case string:
		if v == "" {
			return core.DefaultLimit, nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid limit: %q", v)
		}
		n = i
	default:
		return 0, fmt.Errorf("invalid limit: %v", v)
	}
	if n <= 0 {
		return core.DefaultLimit, nil
	}
	return n, nil
}

// target is a package argument after PURL expansion and registry resolution.
type target struct {
	Name     string
	Version  string
	Registry core.Kind
}

// packageTarget reads the package named by the key argument together with the
// optional "version" and "registry" arguments. The registry is, in order: the
// explicit argument, the PURL type, the configured default, detection. A
// "jsr:" or "npm:" prefix takes part in detection and is then dropped.
func (s *Server) packageTarget(a args, key string) (target, error) {
	name, err := a.required(key)
	if err != nil {
		return target{}, err
	}
	t := target{Name: name, Version: a.str("version")}

	if r := a.str("registry"); r != "" {
		kind, err := core.ParseKind(r)
		if err != nil {
			return target{}, err
		}
		t.Registry = kind
	}

	if ref, ok := core.ParsePackageRef(name); ok {
		t.Name = ref.Name
		if t.Version == "" {
			t.Version = ref.Version
		}
		if t.Registry == "" {
			t.Registry = ref.Registry
		}
	}

	if t.Registry == "" {
		t.Registry = s.defaultRegistry
	}
	if t.Registry == "" {
		t.Registry = core.Detect(t.Name)
	}
	t.Name = core.StripSpecifier(t.Name)
	return t, nil
}

// commandRegistry returns the registry string handed to the command builder.
// Validation is left to the builder so unsupported values become a failed
// CommandResult rather than an error envelope.
func (s *Server) commandRegistry(a args, ref *core.PackageRef) string {
	if r := a.str("registry"); r != "" {
		return r
	}
	if ref != nil {
		return ref.Registry.String()
	}
	return s.defaultRegistry.String()
}

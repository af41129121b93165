// Package pm synthesizes package-manager command lines. Commands are never
// executed.
package pm

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/git-pkgs/jsregistry/internal/core"
)

const denoCacheFallback = "deno cache --reload deps.ts || deno cache --reload import_map.json"

// CommandResult is a generated command line.
type CommandResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Registry core.Kind `json:"registry,omitempty"`
	Command  string    `json:"command,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Options are the inputs shared by the package commands.
type Options struct {
	PackageName string
	Version     string
	Registry    string
	Dev         bool
	Latest      bool
	Workspace   string
}

// Install builds the add-dependency command. The registry comes from
// opts.Registry, then detection when autoDetect is set, then npm.
func Install(opts Options, autoDetect bool) *CommandResult {
	kind, res := resolve(opts.Registry, opts.PackageName, autoDetect)
	if res != nil {
		return res
	}

	spec := opts.PackageName
	if opts.Version != "" {
		spec += "@" + opts.Version
	}

	var cmd string
	switch kind {
	case core.JSR:
		cmd = "deno add " + spec
		if opts.Dev {
			cmd += " --dev"
		}
	case core.Deno:
		cmd = "deno add " + spec
	default:
		cmd = "npm install " + spec
		if opts.Dev {
			cmd += " --save-dev"
		} else {
			cmd += " --save"
		}
	}
	return success(kind, opts.Workspace, cmd, fmt.Sprintf("Install %s from %s", spec, kind))
}

// Remove builds the remove-dependency command.
func Remove(opts Options, autoDetect bool) *CommandResult {
	kind, res := resolve(opts.Registry, opts.PackageName, autoDetect)
	if res != nil {
		return res
	}

	var cmd string
	switch kind {
	case core.JSR, core.Deno:
		cmd = "deno remove " + opts.PackageName
	default:
		cmd = "npm uninstall " + opts.PackageName
	}
	return success(kind, opts.Workspace, cmd, fmt.Sprintf("Remove %s", opts.PackageName))
}

// Update builds the update command. Detection only applies when a package
// name is given.
func Update(opts Options, autoDetect bool) *CommandResult {
	kind, res := resolve(opts.Registry, opts.PackageName, autoDetect && opts.PackageName != "")
	if res != nil {
		return res
	}

	var cmd string
	switch kind {
	case core.JSR, core.Deno:
		cmd = "deno update"
		if opts.PackageName != "" {
			cmd += " " + opts.PackageName
		}
	default:
		cmd = "npm update"
		if opts.PackageName != "" {
			cmd += " " + opts.PackageName
		}
		if opts.Latest {
			cmd += " --latest"
		}
	}

	msg := "Update all dependencies"
	if opts.PackageName != "" {
		msg = fmt.Sprintf("Update %s", opts.PackageName)
	}
	return success(kind, opts.Workspace, cmd, msg)
}

// CI builds the clean-install command.
func CI(registry, workspace string) *CommandResult {
	kind, res := resolve(registry, "", false)
	if res != nil {
		return res
	}

	cmd := "npm ci"
	if kind == core.JSR || kind == core.Deno {
		cmd = denoCacheFallback
	}
	return success(kind, workspace, cmd, "Clean install of locked dependencies")
}

// Outdated builds the outdated-report command.
func Outdated(registry, workspace string) *CommandResult {
	kind, res := resolve(registry, "", false)
	if res != nil {
		return res
	}

	cmd := "npm outdated --json"
	if kind == core.JSR || kind == core.Deno {
		cmd = "deno outdated --json"
	}
	return success(kind, workspace, cmd, "List outdated dependencies")
}

func resolve(registry, name string, autoDetect bool) (core.Kind, *CommandResult) {
	if registry != "" {
		kind, err := core.ParseKind(registry)
		if err != nil {
			return "", &CommandResult{
				Success: false,
				Message: "Unsupported registry",
				Error:   err.Error(),
			}
		}
		return kind.Resolve(), nil
	}
	if autoDetect && name != "" {
		return core.Detect(name).Resolve(), nil
	}
	return core.NPM, nil
}

func success(kind core.Kind, workspace, cmd, msg string) *CommandResult {
	if workspace = strings.TrimSpace(workspace); workspace != "" {
		cmd = fmt.Sprintf("cd %s && %s", shellescape.Quote(workspace), cmd)
	}
	return &CommandResult{
		Success:  true,
		Message:  msg,
		Registry: kind,
		Command:  cmd,
	}
}

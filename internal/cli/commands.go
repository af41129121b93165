package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) serve(ctx context.Context) error {
	err := c.server.Serve(ctx, c.in, c.out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP on stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *CLI) newSearchCmd() *cobra.Command {
	var limit int
	var registry string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the registry detected from the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool := "search_packages"
			if registry != "" {
				tool = "search_" + strings.ToLower(registry)
			}
			return c.run(cmd.Context(), tool, map[string]any{"query": strings.Join(args, " "), "limit": limit})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	cmd.Flags().StringVarP(&registry, "registry", "r", "", "search only this registry: npm, jsr or deno")
	return cmd
}

func (c *CLI) newSearchAllCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search-all <query>",
		Short: "Search npm, JSR and deno.land/x at the same time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), "search_all_registries", map[string]any{"query": strings.Join(args, " "), "limit": limit})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results per registry")
	return cmd
}

func (c *CLI) newSearchRegistryCmd(registry string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search-" + registry + " <query>",
		Short: "Search the " + registry + " registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), "search_"+registry, map[string]any{"query": strings.Join(args, " "), "limit": limit})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	return cmd
}

func (c *CLI) newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <package>",
		Short: "Detect which registry a package name belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), "detect_registry", map[string]any{"packageName": args[0]})
		},
	}
}

func (c *CLI) newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools served over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools := c.server.Tools()
			if c.format == "json" {
				return c.writeJSON(tools)
			}
			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			for _, t := range tools {
				var params []string
				for _, p := range t.Params {
					name := p.Name
					if !p.Required {
						name += "?"
					}
					params = append(params, name)
				}
				fmt.Fprintf(w, "%s(%s)\t%s\n", t.Name, strings.Join(params, ", "), t.Description)
			}
			return w.Flush()
		},
	}
}

// run calls a tool and prints the result. An error envelope becomes the
// command's error.
func (c *CLI) run(ctx context.Context, tool string, args map[string]any) error {
	logger := loggerFromContext(ctx)
	logger.Debug("running tool", "tool", tool)

	res := c.server.Call(ctx, tool, args)
	if res.IsError {
		return errors.New(res.Text)
	}
	if c.format == "text" {
		_, err := fmt.Fprintln(c.out, res.Text)
		return err
	}
	return c.writeJSON(res.Data)
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Schema command: inspects a destination's column listing from the terminal.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okonomi-dev/kiroku/internal/destination"
	"github.com/okonomi-dev/kiroku/internal/kv"
	"github.com/okonomi-dev/kiroku/internal/notion"
	"github.com/okonomi-dev/kiroku/internal/webhook"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <name>",
	Short: "Print a destination's column listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("%w: destination name must not be empty", types.ErrUsage)
	}
	if cfg.NotionAPIKey == "" {
		return fmt.Errorf("%w: NOTION_API_KEY is not set", types.ErrConfig)
	}

	store, err := kv.OpenSQLite(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	svc := notion.NewClient(notionBaseURL(), cfg.NotionAPIKey, logger)
	resolver := destination.New(svc, store, cfg.Destinations, logger)

	handle, err := resolver.Resolve(cmd.Context(), types.NameRef(name))
	if err != nil {
		return fmt.Errorf("resolve %q: %w", name, err)
	}

	fmt.Println(webhook.FormatSchemaList(handle))
	return nil
}

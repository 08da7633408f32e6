package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"specclean/internal/spec"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print the canonical tag ordering table",
	Long: `Tags prints the fixed table that drives preamble reordering, in
canonical order. The table is versioned: cleaning output only changes when
the table version changes.`,
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().String("format", "text", "output format (text|json)")
}

func runTags(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	names := spec.CanonicalTags()
	switch format {
	case "text":
		fmt.Fprintf(cmd.OutOrStdout(), "table version %d\n", spec.TableVersion)
		for i, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, name)
		}
	case "json":
		payload := struct {
			Version int      `json:"version"`
			Tags    []string `json:"tags"`
		}{Version: spec.TableVersion, Tags: names}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("tags: unsupported output format %q", format)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"sentimen/internal/predict"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// modelsCmd lists the models the service has loaded
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the models loaded by the inference service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cfg)
		defer client.CloseIdleConnections()
		return showModels(cmd.Context(), cmd.OutOrStdout(), client)
	},
}

// statusCmd probes the service root
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the inference service is up and list its endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cfg)
		defer client.CloseIdleConnections()
		return showStatus(cmd.Context(), cmd.OutOrStdout(), client)
	},
}

func showModels(ctx context.Context, out io.Writer, client *predict.Client) error {
	info, err := client.ModelsInfo(ctx)
	if err != nil {
		return err
	}
	return printMarkdown(out, modelsMarkdown(info))
}

func showStatus(ctx context.Context, out io.Writer, client *predict.Client) error {
	st, err := client.Status(ctx)
	if err != nil {
		return err
	}
	return printMarkdown(out, statusMarkdown(client.BaseURL(), st))
}

func modelsMarkdown(info *predict.ModelsInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Models (%d)\n\n", info.TotalModels)
	sb.WriteString("| Name | File | Classes | Description |\n|---|---|---|---|\n")
	for _, m := range info.Models {
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n",
			escapeCell(m.Name), m.File, escapeCell(strings.Join(m.Classes, ", ")), escapeCell(m.Description))
	}
	if info.Vectorizer != "" {
		fmt.Fprintf(&sb, "\n**Vectorizer:** %s\n", info.Vectorizer)
	}
	return sb.String()
}

func statusMarkdown(base string, st *predict.ServiceStatus) string {
	var sb strings.Builder
	sb.WriteString("# Service status\n\n")
	fmt.Fprintf(&sb, "**Backend:** %s\n\n", base)
	if st.Message != "" {
		sb.WriteString(st.Message + "\n\n")
	}
	if len(st.Endpoints) > 0 {
		sb.WriteString("| Endpoint | Description |\n|---|---|\n")
		for _, e := range st.Endpoints {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", e.Path, escapeCell(e.Description))
		}
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// printMarkdown renders md for the terminal, falling back to the source.
// Output that cannot show colors (a pipe, a file, NO_COLOR) gets the plain
// notty style whatever the theme.
func printMarkdown(out io.Writer, md string) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(outputWidth())}
	switch {
	case !colorCapable(out):
		opts = append(opts, glamour.WithStandardStyle("notty"))
	case cfgTheme() == "light" || cfgTheme() == "dark":
		opts = append(opts, glamour.WithStandardStyle(cfgTheme()))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err == nil {
		if rendered, rerr := r.Render(md); rerr == nil {
			md = rendered
		}
	}
	_, err = fmt.Fprint(out, md)
	return err
}

func colorCapable(out io.Writer) bool {
	return lipgloss.NewRenderer(out).ColorProfile() != termenv.Ascii
}

func cfgTheme() string {
	if cfg == nil {
		return ""
	}
	return cfg.UI.Theme
}

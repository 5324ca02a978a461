package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simonbystrom/flowview/internal/config"
	"github.com/simonbystrom/flowview/internal/session"
	"github.com/simonbystrom/flowview/internal/template"
	"github.com/simonbystrom/flowview/internal/ui"
	"github.com/simonbystrom/flowview/internal/workflow"
)

func newRootCmd() *cobra.Command {
	var jsonOutput bool

	root := &cobra.Command{
		Use:   "flowview",
		Short: "Plan and track development workflows in the terminal",
		Long: `flowview visualizes a development workflow as an ordered list of steps.

Run without arguments to open the interactive view. Subcommands cover
templates, AI suggestions and analysis, sign-in and saved snapshots.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(runTUI)
		},
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newTemplatesCmd(&jsonOutput),
		newSuggestCmd(),
		newAnalyzeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(&jsonOutput),
		newHistoryCmd(&jsonOutput),
		newExportCmd(),
		newImportCmd(),
		newConfigCmd(),
	)
	return root
}

func runTUI(e *env) error {
	p := tea.NewProgram(ui.NewApp(e.cfg, e.ws, e.advisor), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printNodes(w io.Writer, nodes []workflow.Node) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, n := range nodes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, n.Type, n.Status.Label(), n.Title)
	}
	tw.Flush()
}

func newTemplatesCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the starter workflow templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tpls := template.List()
			if *jsonOutput {
				return printJSON(out, tpls)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTEPS\tDESCRIPTION")
			for _, t := range tpls {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.ID, t.Name, len(t.Nodes), t.Description)
			}
			return tw.Flush()
		},
	}
}

func newSuggestCmd() *cobra.Command {
	var (
		outPath string
		apply   bool
	)
	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Ask the AI architect for a workflow",
		Long: `Generate a workflow from a free-text project description.

Examples:
  flowview suggest "React app with Vercel deployment"
  flowview suggest --out plan.json "Go CLI released with goreleaser"
  flowview suggest --apply "Data pipeline on Airflow"   # record as a snapshot`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			return withEnv(func(e *env) error {
				out := cmd.OutOrStdout()
				s := e.advisor.GenerateSuggestion(cmd.Context(), description)
				fmt.Fprintln(out, s.Text)
				if s.Failed {
					return errors.New("suggestion failed")
				}
				printNodes(out, s.Nodes)

				if outPath != "" {
					if err := workflow.SaveFile(outPath, workflow.FallbackName, s.Nodes); err != nil {
						return fmt.Errorf("write suggestion: %w", err)
					}
					fmt.Fprintf(out, "Wrote %s\n", outPath)
				}
				if apply {
					e.ws.ApplyWorkflow(s.Nodes, "")
					fmt.Fprintln(out, e.ws.Save())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the suggested workflow to a JSON file")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply the suggestion and record a snapshot")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		templateID string
		filePath   string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ask the AI architect to review a workflow",
		Long: `Analyze a workflow for bottlenecks and missing steps.

The startup workflow is analyzed unless --template or --file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if templateID != "" && filePath != "" {
				return errors.New("--template and --file are mutually exclusive")
			}
			nodes := workflow.DefaultNodes()
			switch {
			case templateID != "":
				t, ok := template.Get(templateID)
				if !ok {
					return fmt.Errorf("unknown template %q", templateID)
				}
				nodes = t.Nodes
			case filePath != "":
				doc, err := workflow.LoadFile(filePath)
				if err != nil {
					return err
				}
				nodes = doc.Nodes
			}
			if len(nodes) == 0 {
				return errors.New("workflow has no steps")
			}

			return withEnv(func(e *env) error {
				a := e.advisor.AnalyzeWorkflow(cmd.Context(), nodes)
				fmt.Fprintln(cmd.OutOrStdout(), a.Text)
				if a.Failed {
					return errors.New("analysis failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Analyze a catalog template")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Analyze a workflow JSON file")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var credential string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the guest or with an identity credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				var who session.Identity
				if credential != "" {
					who = e.ws.LoginWithCredential(credential)
				} else {
					who = e.ws.LoginGuest()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", who.Name, who.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&credential, "credential", "", "Identity token (JWT) to sign in with")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				e.ws.Logout()
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				out := cmd.OutOrStdout()
				id, ok := e.ws.Identity()
				if *jsonOutput {
					if !ok {
						return printJSON(out, nil)
					}
					return printJSON(out, id)
				}
				if !ok {
					fmt.Fprintln(out, "Not signed in")
					return nil
				}
				fmt.Fprintf(out, "%s <%s> [%s]\n", id.Name, id.Email, id.Avatar)
				return nil
			})
		},
	}
}

type snapshotJSON struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	NodeCount int             `json:"node_count"`
	SavedBy   string          `json:"saved_by,omitempty"`
	CreatedAt string          `json:"created_at"`
	Nodes     json.RawMessage `json:"nodes,omitempty"`
}

func newHistoryCmd(jsonOutput *bool) *cobra.Command {
	var (
		limit  int
		showID int64
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved workflow snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				out := cmd.OutOrStdout()

				if showID != 0 {
					snap, err := e.db.GetSnapshot(showID)
					if err != nil {
						return err
					}
					if *jsonOutput {
						return printJSON(out, snapshotJSON{
							ID: snap.ID, Name: snap.Name, NodeCount: snap.NodeCount,
							SavedBy: snap.SavedBy, CreatedAt: snap.CreatedAt.Format(time.RFC3339),
							Nodes: snap.Nodes,
						})
					}
					var nodes []workflow.Node
					if err := json.Unmarshal(snap.Nodes, &nodes); err != nil {
						return fmt.Errorf("decode snapshot %d: %w", snap.ID, err)
					}
					fmt.Fprintf(out, "%s (saved %s)\n", snap.Name, snap.CreatedAt.Format("2006-01-02 15:04"))
					printNodes(out, nodes)
					return nil
				}

				snaps, err := e.db.ListSnapshots(limit)
				if err != nil {
					return fmt.Errorf("list snapshots: %w", err)
				}
				if *jsonOutput {
					rows := make([]snapshotJSON, len(snaps))
					for i, s := range snaps {
						rows[i] = snapshotJSON{
							ID: s.ID, Name: s.Name, NodeCount: s.NodeCount, SavedBy: s.SavedBy,
							CreatedAt: s.CreatedAt.Format(time.RFC3339),
						}
					}
					return printJSON(out, rows)
				}
				if len(snaps) == 0 {
					fmt.Fprintln(out, "No snapshots yet. Save from the interactive view with ctrl+s.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tSTEPS\tSAVED BY\tSAVED AT")
				for _, s := range snaps {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
						s.ID, s.Name, s.NodeCount, s.SavedBy, s.CreatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of snapshots to list")
	cmd.Flags().Int64Var(&showID, "show", 0, "Show the steps of one snapshot")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		templateID string
		snapshotID int64
	)
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write a workflow to a JSON file",
		Long: `Write a workflow to a JSON file that import and analyze --file accept.

The most recent snapshot is exported unless --template or --snapshot is
given; with no snapshots the startup workflow is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if templateID != "" {
				t, ok := template.Get(templateID)
				if !ok {
					return fmt.Errorf("unknown template %q", templateID)
				}
				return exportNodes(cmd.OutOrStdout(), path, t.Name, t.Nodes)
			}

			return withEnv(func(e *env) error {
				name, nodes, err := snapshotWorkflow(e, snapshotID)
				if err != nil {
					return err
				}
				return exportNodes(cmd.OutOrStdout(), path, name, nodes)
			})
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Export a catalog template")
	cmd.Flags().Int64Var(&snapshotID, "snapshot", 0, "Export a specific snapshot")
	return cmd
}

// snapshotWorkflow returns the workflow stored in snapshot id, or in the
// newest snapshot when id is zero, or the startup workflow when none exist.
func snapshotWorkflow(e *env, id int64) (string, []workflow.Node, error) {
	if id == 0 {
		snaps, err := e.db.ListSnapshots(1)
		if err != nil {
			return "", nil, fmt.Errorf("list snapshots: %w", err)
		}
		if len(snaps) == 0 {
			return e.ws.Name(), e.ws.Nodes(), nil
		}
		id = snaps[0].ID
	}

	snap, err := e.db.GetSnapshot(id)
	if err != nil {
		return "", nil, err
	}
	var nodes []workflow.Node
	if err := json.Unmarshal(snap.Nodes, &nodes); err != nil {
		return "", nil, fmt.Errorf("decode snapshot %d: %w", snap.ID, err)
	}
	return snap.Name, nodes, nil
}

func exportNodes(w io.Writer, path, name string, nodes []workflow.Node) error {
	if err := workflow.SaveFile(path, name, nodes); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %q (%d steps) to %s\n", name, len(nodes), path)
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Load a workflow JSON file and record it as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := workflow.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withEnv(func(e *env) error {
				e.ws.ApplyWorkflow(doc.Nodes, doc.Name)
				fmt.Fprintln(cmd.OutOrStdout(), e.ws.Save())
				return nil
			})
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	})
	return cmd
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/prune"
)

// PruneOptions holds flags for the prune command.
type PruneOptions struct {
	Trees bool
	Blobs bool
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Interactively remove stale trees and orphaned blobs",
		Long: `Interactively remove stale trees and orphaned blobs.

A tree is stale when its root directory no longer exists. A blob is
orphaned when no script or file binding references it; confirmed orphans
are tombstoned, never deleted, so ids stay stable. Each candidate is shown
and removed only after confirmation. By default both sweeps run; --trees
or --blobs restricts to one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Trees, "trees", false, "only sweep stale trees")
	cmd.Flags().BoolVar(&opts.Blobs, "blobs", false, "only sweep orphaned blobs")
	return cmd
}

func runPrune(cmd *cobra.Command, opts *PruneOptions) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	confirm := newConfirmer(cmd.InOrStdin(), out)
	pruner := prune.New(app.Store)

	both := opts.Trees == opts.Blobs // neither or both flags given

	if opts.Trees || both {
		removed, err := pruner.StaleTrees(ctx, func(st prune.StaleTree) bool {
			fmt.Fprintf(out, "Tree root no longer exists: %s\n", st.Root)
			if len(st.Scripts) > 0 {
				writeBindingList(out, "It keeps these scripts:", st.Scripts)
			}
			if len(st.Files) > 0 {
				writeBindingList(out, "It keeps these files:", st.Files)
			}
			return confirm("Unestablish this tree?")
		})
		if err != nil {
			return WrapExitError(ExitCommandError, "stale tree sweep failed", err)
		}
		fmt.Fprintf(out, "Removed %d stale tree(s).\n", removed)
	}

	if opts.Blobs || both {
		tombstoned, err := pruner.OrphanBlobs(ctx, func(b prune.OrphanBlob) bool {
			fmt.Fprintf(out, "Orphaned blob %d:\n", b.ID)
			if b.Preview == "" {
				fmt.Fprintln(out, "(binary content)")
			} else {
				fmt.Fprintln(out, b.Preview)
			}
			return confirm("Tombstone this blob?")
		})
		if err != nil {
			return WrapExitError(ExitCommandError, "orphan blob sweep failed", err)
		}
		fmt.Fprintf(out, "Tombstoned %d orphaned blob(s).\n", tombstoned)
	}
	return nil
}

// newConfirmer returns a y/N prompt bound to the command's streams.
// Anything but an explicit yes declines; a closed stdin declines the rest.
func newConfirmer(in io.Reader, out io.Writer) func(prompt string) bool {
	scanner := bufio.NewScanner(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes"
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/corpusfold/internal/config"
)

func (c *CLI) newUpCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Self-update to the latest release",
		Example: `  corpusfold up
  corpusfold up --check
  corpusfold up --repo myorg/corpusfold-fork`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fs := cmd.Flags(); fs.Changed("repo") {
				c.cfg.Update.Repository, _ = fs.GetString("repo")
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			return c.selfUpdate(cmd.Context(), c.output(cmd), check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Only report whether a newer release exists")
	cmd.Flags().String("repo", config.Default().Update.Repository, "GitHub repository (owner/name) publishing releases")
	return cmd
}

// output is where command results are printed; nothing is printed when silent.
func (c *CLI) output(cmd *cobra.Command) io.Writer {
	if c.silent {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

// releaseVersion maps a build version to a comparable semantic version.
// Development builds compare lower than every release.
func releaseVersion(v string) string {
	v = strings.TrimPrefix(v, "v")
	if v == "" || v == "dev" {
		return "0.0.0"
	}
	return v
}

func (c *CLI) selfUpdate(ctx context.Context, w io.Writer, check bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo := c.cfg.Update.Repository

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return err
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return fmt.Errorf("detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found in %s", repo)
	}

	if latest.LessOrEqual(releaseVersion(c.version)) {
		_, _ = fmt.Fprintf(w, "Already up to date (%s)\n", c.version)
		return nil
	}
	if check {
		_, _ = fmt.Fprintf(w, "Update available: %s -> %s\n", c.version, latest.Version())
		return nil
	}

	slog.Info("Updating", "repo", repo, "from", c.version, "to", latest.Version())

	exe, err := os.Executable()
	if err != nil {
		return err
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Updated to %s\n", latest.Version())
	return nil
}

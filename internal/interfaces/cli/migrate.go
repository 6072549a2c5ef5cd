package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ReactionLab/internal/infrastructure/database"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the reaction store schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st *database.Store) error {
				if err := st.Migrator.Up(ctx); err != nil {
					return err
				}
				return printStatus(cmd, ctx, st)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.Newf(errors.ErrCodeValidation, "--steps must be at least 1, got %d", steps)
			}
			return withStore(cmd, func(ctx context.Context, st *database.Store) error {
				if err := st.Migrator.Down(ctx, steps); err != nil {
					return err
				}
				return printStatus(cmd, ctx, st)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st *database.Store) error {
				return printStatus(cmd, ctx, st)
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

// MigrationStatus is the printable schema state.
type MigrationStatus struct {
	Driver  string `json:"driver"`
	Version uint   `json:"version"`
	Dirty   bool   `json:"dirty"`
}

func (s MigrationStatus) String() string {
	state := "clean"
	if s.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("%s schema at version %d (%s)", s.Driver, s.Version, state)
}

// withStore opens the store without auto-migration so the subcommand
// controls the schema.
func withStore(cmd *cobra.Command, fn func(context.Context, *database.Store) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config.Store
	cfg.AutoMigrate = false

	ctx := cmd.Context()
	st, err := database.Open(ctx, cfg, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

func printStatus(cmd *cobra.Command, ctx context.Context, st *database.Store) error {
	version, dirty, err := st.Migrator.Status(ctx)
	if err != nil {
		return err
	}
	return PrintResult(cmd, MigrationStatus{Driver: st.Driver, Version: version, Dirty: dirty})
}

//Personal.AI order the ending

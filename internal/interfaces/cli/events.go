package cli

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/turtacn/ReactionLab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ReactionLab/pkg/errors"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// NewEventsCmd creates the events command group.
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect reaction-recorded events",
	}

	var max int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print reaction-recorded events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if !cliCtx.Config.Kafka.Enabled {
				return errors.New(errors.ErrCodeValidation, "kafka is disabled; set kafka.enabled to tail events")
			}
			consumer, err := kafka.NewConsumer(cliCtx.Config.Kafka, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer consumer.Close()
			return tailEvents(cmd, consumer, max)
		},
	}
	tail.Flags().IntVarP(&max, "max", "n", 0, "stop after this many events (0 = until interrupted)")

	cmd.AddCommand(tail)
	return cmd
}

type eventRunner interface {
	Run(ctx context.Context, handle kafka.RecordedHandler) error
}

// tailEvents prints events from c until ctx ends or max events were seen.
func tailEvents(cmd *cobra.Command, c eventRunner, max int) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var seen atomic.Int64
	err := c.Run(ctx, func(_ context.Context, ev *rtypes.RecordedEvent) error {
		if err := PrintResult(cmd, eventView{ev}); err != nil {
			return err
		}
		if max > 0 && seen.Add(1) >= int64(max) {
			cancel()
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

type eventView struct{ ev *rtypes.RecordedEvent }

func (v eventView) JSONValue() interface{} { return v.ev }

func (v eventView) String() string {
	r := v.ev.Record
	return fmt.Sprintf("%s  #%d  %s --%s/%s--> %s",
		v.ev.Timestamp.Time().Format("2006-01-02 15:04:05"), r.ID, r.Reactant, r.ReactionType, r.Catalyst, r.Product)
}

//Personal.AI order the ending

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/recruitment-performance/internal/core/events"
	"github.com/frahmantamala/recruitment-performance/internal/role"
	"github.com/frahmantamala/recruitment-performance/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish dropout workflow events on a local bus to inspect their payloads and handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample dropout event",
	Long:      `Publish a sample event (` + strings.Join(events.DropoutEventTypes, ", ") + `) to the event bus for debugging`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.DropoutEventTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventRequestID   int64
	eventRoleID      int64
	eventRecruiterID int64
	eventActorID     int64
	eventReason      string
	eventDecision    string
)

func buildDropoutEvent(eventType string, at time.Time) (events.Event, error) {
	switch eventType {
	case events.EventTypeDropoutCreated:
		return events.NewDropoutCreatedEvent(eventRequestID, eventRoleID, eventRecruiterID, eventReason, at), nil
	case events.EventTypeDropoutAcknowledged:
		return events.NewDropoutAcknowledgedEvent(eventRequestID, eventRoleID, eventActorID, at), nil
	case events.EventTypeDropoutDecided:
		var status *string
		if eventDecision == "accepted" {
			s := role.StatusDropout
			status = &s
		}
		return events.NewDropoutDecidedEvent(eventRequestID, eventRoleID, eventRecruiterID, eventDecision, status, eventDecision == "accepted", at), nil
	default:
		return nil, fmt.Errorf("unknown event type %q, expected one of: %s", eventType, strings.Join(events.DropoutEventTypes, ", "))
	}
}

func publishTestEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.LoggerWrapper()

	event, err := buildDropoutEvent(eventType, time.Now().UTC())
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(lg)
	registerEventHandlers(eventBus, lg)

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())
	if err := eventBus.PublishSync(ctx, event); err != nil {
		fmt.Fprintf(os.Stderr, "failed to publish event: %v\n", err)
		return err
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventRequestID, "request-id", 1, "dropout request id")
	publishEventCmd.Flags().Int64Var(&eventRoleID, "role-id", 1, "role id")
	publishEventCmd.Flags().Int64Var(&eventRecruiterID, "recruiter-id", 1, "recruiter id")
	publishEventCmd.Flags().Int64Var(&eventActorID, "actor-id", 2, "acknowledging manager id")
	publishEventCmd.Flags().StringVar(&eventReason, "reason", "candidate withdrew", "dropout reason")
	publishEventCmd.Flags().StringVar(&eventDecision, "decision", "accepted", "decision for dropout.decided (accepted or ignored)")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}

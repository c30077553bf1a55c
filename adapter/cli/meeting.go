package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	meetingsApp "github.com/fernwehr/salesloop/internal/meetings/application"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Schedule and manage sales meetings",
}

var meetingScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Book a meeting with a prospect",
	Example: `  salesloop meeting schedule --title "Intro call" --start 2026-09-01T15:00:00Z --attendee jane@acme.com
  salesloop meeting schedule --title "Demo" --attendee jane@acme.com --calendly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		title, _ := cmd.Flags().GetString("title")
		start, _ := cmd.Flags().GetString("start")
		attendee, _ := cmd.Flags().GetString("attendee")
		duration, _ := cmd.Flags().GetDuration("duration")
		useCalendly, _ := cmd.Flags().GetBool("calendly")

		startsAt := time.Now().Add(24 * time.Hour)
		if start != "" {
			parsed, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start, want RFC3339: %w", err)
			}
			startsAt = parsed
		}

		meeting, err := app.Scheduler.Schedule(cmd.Context(), meetingsApp.ScheduleRequest{
			Title:       title,
			StartsAt:    startsAt,
			Duration:    duration,
			Attendee:    attendee,
			UseCalendly: useCalendly,
		})
		if err != nil {
			return fmt.Errorf("schedule meeting: %w", err)
		}

		fmt.Printf("Meeting booked: %s\n", meeting.ID())
		if useCalendly {
			fmt.Printf("Booking link: %s\n", meeting.ExternalID())
		} else {
			fmt.Printf("Starts: %s\n", meeting.StartsAt().Format(time.RFC3339))
		}
		return nil
	},
}

var meetingCancelCmd = &cobra.Command{
	Use:   "cancel <meeting-id>",
	Short: "Cancel a scheduled meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid meeting id: %w", err)
		}
		if err := app.Scheduler.Cancel(cmd.Context(), id); err != nil {
			return fmt.Errorf("cancel meeting: %w", err)
		}
		fmt.Println("Meeting cancelled.")
		return nil
	},
}

var meetingCompleteCmd = &cobra.Command{
	Use:   "complete <meeting-id>",
	Short: "Mark a meeting as held",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid meeting id: %w", err)
		}
		if err := app.Scheduler.Complete(cmd.Context(), id); err != nil {
			return fmt.Errorf("complete meeting: %w", err)
		}
		fmt.Println("Meeting completed.")
		return nil
	},
}

var meetingListCmd = &cobra.Command{
	Use:   "list <attendee>",
	Short: "List meetings for an attendee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		meetings, err := app.Scheduler.ListForAttendee(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list meetings: %w", err)
		}
		if len(meetings) == 0 {
			fmt.Println("No meetings found.")
			return nil
		}
		for _, meeting := range meetings {
			fmt.Printf("%-36s %-20s %-10s %s\n",
				meeting.ID(), meeting.StartsAt().Format("2006-01-02 15:04"),
				meeting.Status(), meeting.Title())
		}
		return nil
	},
}

func init() {
	meetingScheduleCmd.Flags().String("title", "", "meeting title")
	meetingScheduleCmd.Flags().String("start", "", "start time (RFC3339)")
	meetingScheduleCmd.Flags().String("attendee", "", "attendee email address")
	meetingScheduleCmd.Flags().Duration("duration", 0, "meeting duration, e.g. 45m")
	meetingScheduleCmd.Flags().Bool("calendly", false, "send a Calendly booking link instead of booking directly")
	_ = meetingScheduleCmd.MarkFlagRequired("title")
	_ = meetingScheduleCmd.MarkFlagRequired("attendee")

	meetingCmd.AddCommand(meetingScheduleCmd)
	meetingCmd.AddCommand(meetingCancelCmd)
	meetingCmd.AddCommand(meetingCompleteCmd)
	meetingCmd.AddCommand(meetingListCmd)
	rootCmd.AddCommand(meetingCmd)
}

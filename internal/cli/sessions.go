package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/edumentor/learnconnect/pkg/learnsdk"
)

func (a *App) sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage tutoring sessions",
	}

	cmd.AddCommand(
		a.sessionsListCmd(),
		a.sessionsBookCmd(),
		a.sessionsCancelCmd(),
		a.sessionsMessagesCmd(),
		a.sessionsSendCmd(),
		a.sessionsReviewCmd(),
	)
	return cmd
}

func (a *App) sessionsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			list, err := a.client.ListSessions(cmd.Context(), learnsdk.SessionFilter{Status: status})
			if err != nil {
				return err
			}
			if len(list.Sessions) == 0 {
				fmt.Fprintln(a.out, "no sessions")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSKILL\tTUTOR\tLEARNER\tSTARTS\tMINUTES\tSTATUS")
			for _, s := range list.Sessions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					s.ID, s.SkillName, s.TutorName, s.LearnerName,
					s.StartsAt.Local().Format("2006-01-02 15:04"),
					s.DurationMinutes, s.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter: booked, completed or cancelled")
	return cmd
}

func (a *App) sessionsBookCmd() *cobra.Command {
	var (
		tutorID, skillID, at string
		minutes              int
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a session with a tutor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			startsAt, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("--at must be RFC3339, e.g. 2026-09-02T15:00:00Z: %w", err)
			}

			session, err := a.client.BookSession(cmd.Context(), learnsdk.BookSessionRequest{
				TutorID:         tutorID,
				SkillID:         skillID,
				StartsAt:        startsAt,
				DurationMinutes: minutes,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "booked %s with %s on %s (%s)\n",
				session.SkillName, session.TutorName,
				session.StartsAt.Local().Format("2006-01-02 15:04"), session.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&tutorID, "tutor", "", "tutor ID from 'tutors'")
	cmd.Flags().StringVar(&skillID, "skill", "", "skill ID from 'skills list'")
	cmd.Flags().StringVar(&at, "at", "", "start time, RFC3339")
	cmd.Flags().IntVar(&minutes, "minutes", 60, "duration in minutes")
	_ = cmd.MarkFlagRequired("tutor")
	_ = cmd.MarkFlagRequired("skill")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func (a *App) sessionsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel SESSION_ID",
		Short: "Cancel a booked session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			if err := a.client.CancelSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "session cancelled")
			return nil
		},
	}
}

func (a *App) sessionsMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages SESSION_ID",
		Short: "Show a session's message thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			list, err := a.client.ListMessages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(list.Messages) == 0 {
				fmt.Fprintln(a.out, "no messages")
				return nil
			}

			me := a.machine.State().Session.User.ID
			for _, m := range list.Messages {
				who := "them"
				if m.SenderID == me {
					who = "you"
				}
				fmt.Fprintf(a.out, "[%s] %s: %s\n",
					m.SentAt.Local().Format("15:04"), who, m.Body)
			}
			return nil
		},
	}
}

func (a *App) sessionsSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send SESSION_ID MESSAGE",
		Short: "Send a message to a session thread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			if _, err := a.client.SendMessage(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "sent")
			return nil
		},
	}
}

func (a *App) sessionsReviewCmd() *cobra.Command {
	var (
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "review SESSION_ID",
		Short: "Rate a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			if _, err := a.client.ReviewSession(cmd.Context(), args[0], rating, comment); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "rated %d/5\n", rating)
			return nil
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "optional comment")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

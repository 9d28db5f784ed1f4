package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream live notifications until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			stream, err := a.client.StreamNotifications(cmd.Context())
			if err != nil {
				return err
			}
			defer stream.Close()

			fmt.Fprintln(a.out, "watching for notifications (ctrl-c to stop)...")
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case n, ok := <-stream.Events():
					if !ok {
						return stream.Err()
					}
					fmt.Fprintf(a.out, "[%s] %s: %s",
						n.CreatedAt.Local().Format("15:04:05"), n.Type, n.Title)
					if n.Body != "" {
						fmt.Fprintf(a.out, " - %s", n.Body)
					}
					fmt.Fprintln(a.out)
				}
			}
		},
	}
}

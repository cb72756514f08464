package cli

import (
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/spf13/cobra"
)

func newRemindCmd(stdout, stderr io.Writer, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder loop without the UI",
		Long:  "Run the reminder loop in the foreground until interrupted, sending a notification for every open task whose reminder is due.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			once, _ := cmd.Flags().GetBool("once")

			a, err := openApp(cmd.Context(), flags, stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			loop := a.newLoop()
			if once {
				fired, err := loop.ScanOnce(cmd.Context(), time.Now())
				drainReminders(stdout, loop.C())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "%d reminders sent\n", fired)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for rem := range loop.C() {
					printReminder(stdout, rem)
				}
			}()
			err = loop.Run(ctx)
			wg.Wait()
			if dropped := loop.Dropped(); dropped > 0 {
				a.logger.Warn("reminders dropped", "count", dropped)
			}
			return err
		},
	}
	cmd.Flags().Bool("once", false, "Run a single pass and exit")
	return cmd
}

// drainReminders prints the reminders already published without waiting.
func drainReminders(w io.Writer, ch <-chan model.Reminder) {
	for {
		select {
		case rem, ok := <-ch:
			if !ok {
				return
			}
			printReminder(w, rem)
		default:
			return
		}
	}
}

func printReminder(w io.Writer, rem model.Reminder) {
	line := fmt.Sprintf("%s reminded %s [%s] %s, next %s",
		rem.FiredAt.Local().Format(timeLayout), shortID(rem.TaskID), rem.Priority, rem.Content, rem.NextAt.Local().Format(timeLayout))
	if rem.Err != nil {
		line += fmt.Sprintf(" (not delivered: %v)", rem.Err)
	}
	_, _ = fmt.Fprintln(w, line)
}

func shortID(id string) string {
	return model.Task{ID: id}.ShortID()
}

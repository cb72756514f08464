package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func newAddCmd(stdout, stderr io.Writer, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <content...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("priority")
			priority, err := model.ParsePriority(raw)
			if err != nil {
				return &model.ValidationError{Field: "priority", Err: err}
			}
			previews, _ := cmd.Flags().GetInt("preview")

			a, err := openApp(cmd.Context(), flags, stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.store.Add(cmd.Context(), strings.Join(args, " "), priority)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "added %s [%s] %s\n", task.ShortID(), task.Priority, task.Content)

			policy := a.store.Policy()
			times, err := policy.Preview(task.RemindAt.Add(-policy.Initial), previews)
			if err != nil {
				return err
			}
			for _, at := range times {
				_, _ = fmt.Fprintf(stdout, "  remind %s\n", at.Local().Format(timeLayout))
			}
			return nil
		},
	}
	cmd.Flags().StringP("priority", "p", string(model.PriorityMedium), "Task priority (high, medium, low)")
	cmd.Flags().Int("preview", 3, "Number of upcoming reminders to show")
	return cmd
}

type listedTask struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
	RemindAt string `json:"remind_at"`
}

func newListCmd(stdout, stderr io.Writer, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks by priority",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			incomplete, _ := cmd.Flags().GetBool("incomplete")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd.Context(), flags, stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.store.List(incomplete)
			if jsonOutput {
				return writeJSON(stdout, list)
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(stdout, "no tasks")
				return nil
			}
			for i, t := range list {
				_, _ = fmt.Fprintln(stdout, formatTask(i+1, t))
			}
			return nil
		},
	}
	cmd.Flags().BoolP("incomplete", "i", false, "Only show tasks that are not done")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func writeJSON(w io.Writer, list []model.Task) error {
	out := make([]listedTask, 0, len(list))
	for i, t := range list {
		out = append(out, listedTask{
			Position: i + 1,
			ID:       t.ID,
			Content:  t.Content,
			Priority: string(t.Priority),
			Done:     t.Done,
			RemindAt: t.RemindAt.Format(time.RFC3339),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatTask(position int, t model.Task) string {
	check := "[ ]"
	if t.Done {
		check = "[x]"
	}
	return fmt.Sprintf("%2d. %s %-6s %s  (%s, remind %s)", position, check, t.Priority, t.Content, t.ShortID(), t.RemindAt.Local().Format(timeLayout))
}

func newSetDoneCmd(stdout, stderr io.Writer, flags *globalFlags, done bool) *cobra.Command {
	use, short, aliases := "done <ref>", "Mark a task done", []string{"complete"}
	if !done {
		use, short, aliases = "undo <ref>", "Mark a task open again", []string{"reopen"}
	}
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Long:    short + ". A ref is a list position, a task id or a unique id prefix.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			task, err = a.store.SetDone(cmd.Context(), task.ID, done)
			if err != nil {
				return err
			}
			state := "reopened"
			if task.Done {
				state = "done"
			}
			_, _ = fmt.Fprintf(stdout, "%s %s %s\n", state, task.ShortID(), task.Content)
			return nil
		},
	}
}

func newRemoveCmd(stdout, stderr io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete", "del"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Remove(cmd.Context(), task.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "deleted %s %s\n", task.ShortID(), task.Content)
			return nil
		},
	}
}

func newCheckCmd(stdout, stderr io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and the task file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			open := len(a.store.List(true))
			due := len(a.store.Due(time.Now()))
			_, _ = fmt.Fprintf(stdout, "ok: %s (%s) holds %d tasks, %d open, %d due\n", a.cfg.DataFile, a.cfg.Backend, a.store.Len(), open, due)
			if a.cfg.File != "" {
				_, _ = fmt.Fprintf(stdout, "config: %s\n", a.cfg.File)
			}
			return nil
		},
	}
}

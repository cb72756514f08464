// Package cli is the tasklist command tree: the interactive terminal UI by
// default, plus subcommands for scripting and a headless reminder daemon.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	dataFile   string
	backend    string
	theme      string
	logLevel   string
}

// overrides maps the flags that were set to config keys.
func (f *globalFlags) overrides() map[string]interface{} {
	out := map[string]interface{}{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			out[key] = v
		}
	}
	set("data_file", f.dataFile)
	set("backend", f.backend)
	set("theme", f.theme)
	set("log.level", f.logLevel)
	return out
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return ExecuteContext(context.Background(), args, stdout, stderr)
}

func ExecuteContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(stdout, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root command with injectable IO.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "tasklist",
		Short:         "A personal task list with daily reminders",
		Long:          "tasklist keeps a prioritized task list in a local file and reminds you about open tasks until they are done.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (yaml or toml)")
	cmd.PersistentFlags().StringVarP(&flags.dataFile, "data-file", "f", "", "Task file to read and write")
	cmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "Storage backend (json or sqlite)")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "UI theme (light or dark)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newAddCmd(stdout, stderr, flags),
		newListCmd(stdout, stderr, flags),
		newSetDoneCmd(stdout, stderr, flags, true),
		newSetDoneCmd(stdout, stderr, flags, false),
		newRemoveCmd(stdout, stderr, flags),
		newRemindCmd(stdout, stderr, flags),
		newCheckCmd(stdout, stderr, flags),
	)
	return cmd
}

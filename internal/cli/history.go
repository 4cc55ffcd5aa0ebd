package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/chinchinbooth/internal/emoji"
	"github.com/yildizm/chinchinbooth/internal/formatter"
	"github.com/yildizm/chinchinbooth/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var last int

	historyCmd := &cobra.Command{
		Use:   "history [log-file]",
		Short: "Summarize past booth sessions",
		Long: `Read the session log and summarize past booth sessions: photos taken,
strips saved, the filters and layouts used, and where the strips went.

Without an argument the configured session log is read.`,
		Example: `  # Summarize the configured session log
  chinchinbooth history

  # Only the three most recent sessions, as JSON
  chinchinbooth history --last 3 -o json

  # Summarize another log
  chinchinbooth history ./party.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := cfg.LogFile()
			if len(args) == 1 {
				path = args[0]
			}
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintf(out, "%s Session logging is disabled (logging.file is empty)\n", emoji.GetEmoji("info"))
				return nil
			}

			h, err := history.Load(path)
			switch {
			case errors.Is(err, os.ErrNotExist):
				fmt.Fprintf(out, "%s No session log at %s yet. Take some photos first!\n", emoji.GetEmoji("camera"), path)
				return nil
			case errors.Is(err, history.ErrNoSessions):
				fmt.Fprintf(out, "%s No booth sessions recorded in %s\n", emoji.GetEmoji("camera"), path)
				return nil
			case err != nil:
				return err
			}

			if last > 0 && len(h.Sessions) > last {
				h.Sessions = h.Sessions[len(h.Sessions)-last:]
			}

			f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg), !cfg.Output.NoEmoji)
			if err != nil {
				return err
			}
			data, err := f.FormatHistory(h)
			if err != nil {
				return fmt.Errorf("failed to format history: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	historyCmd.Flags().IntVar(&last, "last", 0, "only show the N most recent sessions")

	return historyCmd
}

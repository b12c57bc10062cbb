package cli

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

const defaultDBPath = "./tradejournal.db"

func newJournalCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Import and query the SQLite trade journal",
		Long: `Import and display trade journal records from a SQLite database.

Subcommands:
  import - Copy trades from a CSV journal into the database
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day

Examples:
  tradejournal journal import --csv trades.csv
  tradejournal journal trade <trade-id>
  tradejournal journal today
  tradejournal journal day 2024-01-15`,
	}
	cmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (default from config)")

	open := func() (*journal.SQLiteJournal, error) {
		path := dbPath
		if path == "" {
			path = a.cfg.Journal.DBPath
		}
		if path == "" {
			path = defaultDBPath
		}
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	cmd.AddCommand(
		newJournalImportCmd(a, open),
		newJournalTradeCmd(open),
		newJournalTodayCmd(a, open),
		newJournalDayCmd(a, open),
	)
	return cmd
}

type opener func() (*journal.SQLiteJournal, error)

func newJournalImportCmd(a *app, open opener) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import trades from a CSV journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := journal.ReadCSVFile(csvPath)
			if err != nil {
				return fmt.Errorf("read csv journal: %w", err)
			}

			loc, err := a.cfg.Location()
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			trades, skipped := journal.Resolve(trades, loc)
			for _, i := range skipped {
				a.log.Warn().Int("row", i).Msg("csv row has no usable open_time, skipped")
			}

			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			n, err := journal.Import(j, trades)
			if err != nil {
				return fmt.Errorf("import trade %d: %w", n, err)
			}
			a.log.Info().Str("csv", csvPath).Int("trades", n).Int("skipped", len(skipped)).Msg("journal imported")
			w := cmd.OutOrStdout()
			if len(skipped) > 0 {
				fmt.Fprintf(w, "Imported %d trades (skipped %d)\n", n, len(skipped))
				return nil
			}
			fmt.Fprintf(w, "Imported %d trades\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV trade journal (required)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func newJournalTradeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "trade <trade-id>",
		Short: "Get details of a specific trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			rec, err := j.GetTrade(args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
			return nil
		},
	}
}

func newJournalTodayCmd(a *app, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List trades closed today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.cfg.Location()
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			return printDay(cmd, open, loc, time.Now().In(loc).Format("2006-01-02"))
		},
	}
}

func newJournalDayCmd(a *app, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List trades closed on a specific day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.cfg.Location()
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			return printDay(cmd, open, loc, args[0])
		},
	}
}

func printDay(cmd *cobra.Command, open opener, loc *time.Location, day string) error {
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := open()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatDayOrg(start, recs))
	return nil
}

// dayBounds returns local midnight of day and of the next calendar day, so a
// DST day spans 23 or 25 hours.
func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}

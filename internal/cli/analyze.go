package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/internal/format"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/trade"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		csvPath  string
		dbPath   string
		jsonPath string
		output   string
		tz       string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze closed trades and print ideas and coaching tips",
		Long: `Read closed trades from a CSV journal, a SQLite journal or a JSON
snapshot and print the analytics report.

With no source flag the journal named in the config is used.

Examples:
  tradejournal analyze --csv trades.csv
  tradejournal analyze --db journal.db --format org
  tradejournal analyze --json snapshot.json --format json --tz America/New_York`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := 0
			for _, s := range []string{csvPath, dbPath, jsonPath} {
				if s != "" {
					sources++
				}
			}
			if sources > 1 {
				return fmt.Errorf("use only one of --csv, --db, --json")
			}
			if output != "text" && output != "org" && output != "json" {
				return fmt.Errorf("invalid --format %q (want text, org or json)", output)
			}

			loc, err := a.cfg.Location()
			if tz != "" {
				loc, err = time.LoadLocation(tz)
			}
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			money, err := format.Currency(a.cfg.Currency, a.cfg.Locale)
			if err != nil {
				return err
			}
			th, err := a.cfg.Thresholds()
			if err != nil {
				return err
			}

			engine := analytics.New(
				analytics.WithLocation(loc),
				analytics.WithFormatter(money),
				analytics.WithThresholds(th),
				analytics.WithLogger(a.log),
			)

			var report analytics.Report
			if jsonPath != "" {
				data, err := os.ReadFile(jsonPath)
				if err != nil {
					return fmt.Errorf("read snapshot: %w", err)
				}
				report, err = engine.AnalyzeJSON(data)
				if err != nil {
					return err
				}
			} else {
				raws, err := a.readJournal(csvPath, dbPath)
				if err != nil {
					return err
				}
				report = engine.Analyze(raws)
			}

			w := cmd.OutOrStdout()
			switch output {
			case "org":
				return analytics.WriteOrg(w, report, money)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			default:
				analytics.PrintReport(w, report, money)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV trade journal")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite trade journal")
	cmd.Flags().StringVar(&jsonPath, "json", "", "JSON trade snapshot")
	cmd.Flags().StringVar(&output, "format", "text", "Output: text|org|json")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone for day and hour buckets (default from config)")

	return cmd
}

// readJournal loads trades from csvPath or dbPath, falling back to the
// configured journal when both are empty.
func (a *app) readJournal(csvPath, dbPath string) ([]trade.Raw, error) {
	if csvPath == "" && dbPath == "" {
		switch a.cfg.Journal.Type {
		case "sqlite":
			dbPath = a.cfg.Journal.DBPath
		default:
			csvPath = a.cfg.Journal.TradesFile
		}
	}

	if csvPath != "" {
		trades, err := journal.ReadCSVFile(csvPath)
		if err != nil {
			return nil, fmt.Errorf("read csv journal: %w", err)
		}
		a.log.Debug().Str("csv", csvPath).Int("trades", len(trades)).Msg("journal read")
		return journal.Raws(trades), nil
	}

	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.ListTrades()
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	a.log.Debug().Str("db", dbPath).Int("trades", len(trades)).Msg("journal read")
	return journal.Raws(trades), nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/ledgerkit/keystone/internal/cleaner"
	"github.com/ledgerkit/keystone/internal/config"
	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/rates"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rateTable, err := rates.New(cfg.Rates.Base, cfg.Rates.Pairs)
	if err != nil {
		return fmt.Errorf("load rate table: %w", err)
	}

	var (
		reportID string
		inPath   string
		outPath  = "report_formatted.xlsx"
	)

	options := make([]huh.Option[string], 0, len(cleaner.Types()))
	for _, t := range cleaner.Types() {
		options = append(options, huh.NewOption(string(t), string(t)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Report type").
				Options(options...).
				Value(&reportID),
			huh.NewInput().
				Title("Input file (.xlsx or .csv)").
				Value(&inPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("input file is required")
					}

					return nil
				}),
			huh.NewInput().
				Title("Output file").
				Value(&outPath),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("form: %w", err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	table, err := ingest.Read(inPath, in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result, err := cleaner.NewService(rateTable).Clean(cleaner.Type(reportID), table)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := export.WriteXLSX(out, result.Sheets...); err != nil {
		return err
	}

	fmt.Println(summaryView(result, outPath))

	return nil
}

func summaryView(result *cleaner.Result, outPath string) string {
	s := result.Summary

	lines := []string{
		titleStyle.Render(string(result.Type)),
		fmt.Sprintf("Rows in:               %d", s.RowsIn),
		fmt.Sprintf("Charges:               %d", s.Charges),
		fmt.Sprintf("Settlements:           %d", s.Settlements),
		fmt.Sprintf("Matched:               %d", s.Matched),
		fmt.Sprintf("Unmatched charges:     %d", s.UnmatchedCharges),
	}

	if s.UnmatchedSettlements > 0 {
		lines = append(lines, warnStyle.Render(
			fmt.Sprintf("Unmatched payments:    %d (review the Unmatched Payments section)", s.UnmatchedSettlements)))
	}

	lines = append(lines, "", "Saved to "+outPath)

	return boxStyle.Render(strings.Join(lines, "\n"))
}

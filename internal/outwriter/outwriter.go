// Package outwriter renders incentive views as tables, CSV, JSON or Parquet.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
)

// errParquetNeedsFile is returned when parquet output would go to a terminal.
var errParquetNeedsFile = errors.New("--output-file is required for parquet output")

// pillarHeaders are the short table headers of each pillar.
var pillarHeaders = map[schema.Pillar]string{
	schema.VolumePillar:          "Volume",
	schema.DeliverySuccessPillar: "DS",
	schema.CompliancePillar:      "Compliance",
	schema.LossPillar:            "Loss",
	schema.ProtagonismPillar:     "Protag",
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// dispatch routes a view to the writer of the configured output mode.
// A nil parquet writer means the view has no parquet form.
func dispatch(cfg *contract.Config, view string, text, csvRows, jsonOut, parquetOut func(io.Writer) error) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, jsonOut, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, csvRows, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if parquetOut == nil {
			return fmt.Errorf("parquet output is not supported for the %s view", view)
		}
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := writeWithFile(cfg.OutputFile, parquetOut, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, text, "Wrote table")
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtMoney func(decimal.Decimal) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtMoney = func(d decimal.Decimal) string {
		return d.StringFixed(int32(precision))
	}
	return fmtFloat, fmtMoney
}

// pillarCell renders a pillar value. Not-applicable pillars render as na,
// so a zero payout and a pillar that does not apply never look alike.
func pillarCell(p schema.PillarResult, fmtMoney func(decimal.Decimal) string, na string) string {
	if !p.Applicable() {
		return na
	}
	return fmtMoney(p.Value)
}

// painter returns a color printer, or plain Sprint when colors are off.
func painter(cfg *contract.Config, c *color.Color) func(...any) string {
	if !cfg.UseColors {
		return fmt.Sprint
	}
	return c.SprintFunc()
}

// yesNo renders an eligibility flag; nil is N/A.
func yesNo(b *bool) string {
	switch {
	case b == nil:
		return "N/A"
	case *b:
		return "yes"
	default:
		return "no"
	}
}

// boolCell is the CSV form of an eligibility flag; nil stays empty.
func boolCell(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

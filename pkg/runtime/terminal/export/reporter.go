package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/stock-reports/pkg/adapters"
	"github.com/de-tools/stock-reports/pkg/models/domain"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(value)); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected one of: table, json", value)
	}
}

type TableConfig struct {
	UUIDWidth     int
	StockWidth    int
	DateWidth     int
	PointsWidth   int
	ModifiedWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		UUIDWidth:     36,
		StockWidth:    12,
		DateWidth:     10,
		PointsWidth:   6,
		ModifiedWidth: 20,
	}
}

// row is the table view of a single report.
type row struct {
	UUID     string
	Stock    string
	Start    string
	End      string
	Points   string
	Modified string
}

type Reporter struct {
	writer io.Writer
	config TableConfig
	format Format
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		format: FormatTable,
	}
}

func (c *Reporter) SetFormat(format Format) {
	c.format = format
}

func (c *Reporter) Handle(reports []domain.Report) error {
	if c.format == FormatJSON {
		return c.handleJSON(reports)
	}
	return c.handleTable(reports)
}

func (c *Reporter) handleJSON(reports []domain.Report) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(adapters.MapReportsDomainToApi(reports)); err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}
	return nil
}

func (c *Reporter) handleTable(reports []domain.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(c.writer, "No reports found.")
		return err
	}

	funcMap := template.FuncMap{
		"formatRow": func(r row) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %*s | %-*s |",
				c.config.UUIDWidth, r.UUID,
				c.config.StockWidth, r.Stock,
				c.config.DateWidth, r.Start,
				c.config.DateWidth, r.End,
				c.config.PointsWidth, r.Points,
				c.config.ModifiedWidth, r.Modified)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.UUIDWidth+2),
				strings.Repeat("-", c.config.StockWidth+2),
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.PointsWidth+2),
				strings.Repeat("-", c.config.ModifiedWidth+2))
		},
	}

	tmpl := `{{separator}}
{{formatRow .Header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
{{len .Rows}} report(s)
`

	t, err := template.New("reports").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	rows := make([]row, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, toRow(r))
	}

	return t.Execute(c.writer, struct {
		Header row
		Rows   []row
	}{
		Header: row{UUID: "UUID", Stock: "Stock", Start: "Start", End: "End", Points: "Points", Modified: "Modified"},
		Rows:   rows,
	})
}

func toRow(r domain.Report) row {
	points := "-"
	if s, err := adapters.DecodeSeries(r.Data); err == nil {
		points = fmt.Sprintf("%d", s.Len())
	}
	return row{
		UUID:     r.UUID,
		Stock:    r.Stock,
		Start:    r.Start,
		End:      r.End,
		Points:   points,
		Modified: time.Unix(r.ModifiedAt, 0).UTC().Format("2006-01-02 15:04:05"),
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use table, json or yaml)", s)
	}
}

// Printer renders command results in the selected format.
type Printer struct {
	Format OutputFormat
	Out    io.Writer
}

// NewPrinter creates a printer writing to stdout.
func NewPrinter(format OutputFormat) *Printer {
	return &Printer{Format: format, Out: os.Stdout}
}

// Print renders v. Tables are built from the JSON form of v, so struct tags
// name the rows.
func (p *Printer) Print(v interface{}) error {
	switch p.Format {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.Out, string(data))
		return err
	case OutputFormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		_, err = p.Out.Write(data)
		return err
	case OutputFormatTable, "":
		return p.printTable(v)
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

func (p *Printer) printTable(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object, just print it
		_, err = fmt.Fprintln(p.Out, string(data))
		return err
	}
	p.formatKeyValueTable(fields)
	return nil
}

// formatKeyValueTable formats an object as key-value pairs
func (p *Printer) formatKeyValueTable(data map[string]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(p.Out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("PROPERTY"),
		text.FgHiCyan.Sprint("VALUE"),
	})

	// Sort keys for consistent output
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t.AppendRow(table.Row{
			text.FgYellow.Sprint(key),
			formatCellValue(key, data[key]),
		})
	}

	t.Render()
}

// formatCellValue formats individual cell values with appropriate styling
func formatCellValue(column string, value interface{}) interface{} {
	if value == nil {
		return text.FgHiBlack.Sprint("-")
	}

	switch v := value.(type) {
	case bool:
		return formatFlag(strings.ToLower(column), v)
	case string:
		if v == "" {
			return text.FgHiBlack.Sprint("-")
		}
		return v
	default:
		return fmt.Sprintf("%v", value)
	}
}

// formatFlag colors booleans; the running state gets its own wording.
func formatFlag(column string, v bool) interface{} {
	switch column {
	case "started", "running":
		if v {
			return text.FgGreen.Sprint("🟢 running")
		}
		return text.FgRed.Sprint("🔴 stopped")
	case "restartneeded":
		if v {
			return text.FgYellow.Sprint("yes")
		}
		return text.FgGreen.Sprint("no")
	default:
		if v {
			return text.FgGreen.Sprint("true")
		}
		return text.FgHiBlack.Sprint("false")
	}
}

// PrintEnv writes vars as KEY=value lines sorted by key, the form shells and
// .env files accept.
func PrintEnv(w io.Writer, vars map[string]string) error {
	_, err := io.WriteString(w, FormatEnv(vars))
	return err
}

// FormatEnv renders vars as sorted KEY=value lines.
func FormatEnv(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, vars[k])
	}
	return b.String()
}

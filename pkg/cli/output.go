package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/itchyny/gojq"
)

type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// OutputOptions configures Output.
type OutputOptions struct {
	Format OutputFormat

	// Query is an optional jq expression applied before formatting. Each
	// result of the query is written as its own document.
	Query string

	// Writer defaults to stdout.
	Writer io.Writer
}

// Output writes result in the requested format.
func Output(result any, opts OutputOptions) error {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	values := []any{result}
	if opts.Query != "" {
		var err error
		if values, err = Query(opts.Query, result); err != nil {
			return err
		}
	}

	for _, v := range values {
		var err error
		switch opts.Format {
		case FormatJSON:
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			err = enc.Encode(v)
		case FormatYAML, "":
			var data []byte
			if data, err = yaml.Marshal(v); err == nil {
				_, err = w.Write(data)
			}
		default:
			return fmt.Errorf("unsupported output format: %s", opts.Format)
		}
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	}
	return nil
}

// Query runs a jq expression over v. v is first normalised through JSON so
// struct tags decide the field names.
func Query(expr string, v any) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq query: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}

	var out []any
	iter := q.Run(input)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := r.(error); ok {
			if err, ok := err.(*gojq.HaltError); ok && err.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaf00"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

func PrintSuccess(format string, args ...any) {
	fmt.Println(successStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// PrintError writes to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+fmt.Sprintf(format, args...)))
}

func PrintInfo(format string, args ...any) {
	fmt.Println(infoStyle.Render("ℹ " + fmt.Sprintf(format, args...)))
}

func PrintWarning(format string, args ...any) {
	fmt.Println(warnStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

// PrintVerbose writes to stderr only when verbose is set.
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintln(os.Stderr, dimStyle.Render("[verbose] "+fmt.Sprintf(format, args...)))
	}
}

// Dim renders s in the muted help color.
func Dim(s string) string {
	return dimStyle.Render(s)
}

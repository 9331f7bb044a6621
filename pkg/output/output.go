package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"golang.org/x/term"

	"github.com/campuslink/campus/cli/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// ParseFormat maps a flag value to a format; unknown values are text
func ParseFormat(format string) OutputFormat {
	switch format {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	return ParseFormat(config.GetString("output.format"))
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Printer writes records, lists and notices in one format. Writes are
// serialized so poll callbacks and the input loop can share it.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	format OutputFormat
	color  bool
}

// NewPrinter writes to w. Color is on only when w is a terminal.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	return &Printer{w: w, format: format, color: IsTerminal(w)}
}

// Default prints to stdout in the configured format
func Default() *Printer {
	return NewPrinter(os.Stdout, GetOutputFormat())
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Format returns the printer's format
func (p *Printer) Format() OutputFormat {
	return p.format
}

func (p *Printer) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if !p.color {
		c.DisableColor()
	}
	return c
}

// Record prints one object. Text and table formats list its fields.
func (p *Printer) Record(title string, record map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch p.format {
	case FormatJSON:
		return p.json(record)
	case FormatTable:
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprintf("%v", record[k])})
		}
		p.table([]string{"Field", "Value"}, rows)
		return nil
	default:
		if title != "" {
			fmt.Fprintf(p.w, "%s:\n", title)
		}
		bold := p.paint(color.Bold)
		for _, k := range keys {
			bold.Fprint(p.w, k+": ")
			fmt.Fprintf(p.w, "%v\n", record[k])
		}
		return nil
	}
}

// Table prints rows. JSON format emits the raw items instead.
func (p *Printer) Table(title string, headers []string, rows [][]string, items interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format == FormatJSON {
		return p.json(items)
	}
	if title != "" {
		p.paint(color.FgCyan).Fprintf(p.w, "%s\n", title)
	}
	if len(rows) == 0 {
		fmt.Fprintln(p.w, "(none)")
		return nil
	}
	p.table(headers, rows)
	return nil
}

// JSON prints data as indented JSON regardless of format
func (p *Printer) JSON(data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.json(data)
}

// Success prints a success message
func (p *Printer) Success(msg string, args ...interface{}) {
	p.notice(color.FgGreen, "", msg, args...)
}

// Error prints an error message
func (p *Printer) Error(msg string, args ...interface{}) {
	p.notice(color.FgRed, "Error: ", msg, args...)
}

// Info prints an info message
func (p *Printer) Info(msg string, args ...interface{}) {
	p.notice(color.FgCyan, "", msg, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(msg string, args ...interface{}) {
	p.notice(color.FgYellow, "Warning: ", msg, args...)
}

func (p *Printer) notice(attr color.Attribute, prefix, msg string, args ...interface{}) {
	// Notices would corrupt a JSON stream
	if p.format == FormatJSON {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paint(attr).Fprintf(p.w, prefix+msg+"\n", args...)
}

func (p *Printer) json(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(out))
	return err
}

func (p *Printer) table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	bold := p.paint(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	out, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

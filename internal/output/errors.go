package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
	Code    string // Error code for programmatic handling (optional)
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithCode adds an error code to the error.
func (e *CLIError) WithCode(code string) *CLIError {
	e.Code = code
	return e
}

// AsCLIError returns err as a CLIError, wrapping plain errors.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return NewCLIError(err.Error())
}

func isStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// FormatCLIError formats e for a terminal. Colour is used only when stderr
// is a terminal and colour is not disabled.
func FormatCLIError(e *CLIError) string {
	return formatCLIError(e, isStderrTerminal() && !theme.NoColorEnabled())
}

func formatCLIError(e *CLIError, useColor bool) string {
	plain := lipgloss.NewStyle()
	errorStyle, causeStyle, hintStyle, codeStyle := plain, plain, plain, plain
	if useColor {
		t := theme.Current()
		errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
		causeStyle = lipgloss.NewStyle().Foreground(t.Subtext)
		hintStyle = lipgloss.NewStyle().Foreground(t.Info)
		codeStyle = lipgloss.NewStyle().Foreground(t.Overlay)
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render("Error: "))
	sb.WriteString(e.Message)
	if e.Code != "" {
		sb.WriteString(" ")
		sb.WriteString(codeStyle.Render("[" + e.Code + "]"))
	}
	sb.WriteString("\n")
	if e.Cause != "" {
		sb.WriteString(causeStyle.Render("  Cause: "))
		sb.WriteString(e.Cause)
		sb.WriteString("\n")
	}
	if e.Hint != "" {
		sb.WriteString(hintStyle.Render("  Hint: "))
		sb.WriteString(e.Hint)
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteCLIError writes e to w as JSON in JSON mode, otherwise as text to
// stderr.
func WriteCLIError(w io.Writer, e *CLIError, jsonMode bool) error {
	if jsonMode {
		return WriteJSON(w, ErrorResponse{
			Error:   e.Message,
			Code:    e.Code,
			Details: e.Cause,
			Hint:    e.Hint,
		}, true)
	}
	_, err := fmt.Fprint(os.Stderr, FormatCLIError(e))
	return err
}

// Common error hints.
var (
	HintConfigNotFound = "Run 'crosstab config init' to create a default configuration"
	HintConfigInvalid  = "Check the file with 'crosstab config show' or edit it at 'crosstab config path'"
	HintDatasetFormat  = "Datasets are YAML or TOML with a 'rows' list of equal-length rows"
	HintNotTerminal    = "Run 'crosstab snapshot' for non-interactive output"
	HintGoldenUpdate   = "Re-run with --update to accept the new rendering"
)

// NotTerminalError is returned when the interactive view has no terminal.
func NotTerminalError() *CLIError {
	return NewCLIError("stdout is not a terminal").
		WithCode("NOT_A_TERMINAL").
		WithHint(HintNotTerminal)
}

// DatasetError wraps a dataset load failure.
func DatasetError(path string, err error) *CLIError {
	return NewCLIError(fmt.Sprintf("cannot load dataset %s", path)).
		WithCause(err.Error()).
		WithCode("DATASET_INVALID").
		WithHint(HintDatasetFormat)
}

// ConfigError wraps a config load failure.
func ConfigError(path string, err error) *CLIError {
	hint := HintConfigInvalid
	if errors.Is(err, os.ErrNotExist) {
		hint = HintConfigNotFound
	}
	return NewCLIError(fmt.Sprintf("cannot load config %s", path)).
		WithCause(err.Error()).
		WithCode("CONFIG_INVALID").
		WithHint(hint)
}

// GoldenMismatchError reports a snapshot that differs from its golden file.
func GoldenMismatchError(path string, d *DiffResult) *CLIError {
	return NewCLIError(fmt.Sprintf("snapshot differs from %s", path)).
		WithCause(fmt.Sprintf("%d lines added, %d removed", d.Added, d.Removed)).
		WithCode("GOLDEN_MISMATCH").
		WithHint(HintGoldenUpdate)
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ccheavy/ccheavy/internal/config"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// ErrEmptyQuery is returned when interactive mode receives an empty query.
var ErrEmptyQuery = errors.New("query cannot be empty")

// InteractiveInput collects the research parameters from the terminal when no
// query was given on the command line. It mutates cfg in place and returns
// false when the user declined the final confirmation.
func InteractiveInput(cfg *config.AppConfig, in io.Reader, out io.Writer) (proceed bool, err error) {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "%sWhat would you like to research?%s\n", ui.ColorGreen(), ui.ColorReset())
	query, err := readLine(reader, out)
	if err != nil {
		return false, err
	}
	if query == "" {
		return false, ErrEmptyQuery
	}
	cfg.Query = query

	fmt.Fprintf(out, "\n%sOutput format?%s (markdown/text, or press Enter for markdown)\n", ui.ColorGreen(), ui.ColorReset())
	format, err := readLine(reader, out)
	if err != nil {
		return false, err
	}
	if format != "" {
		cfg.Format = format
	}

	fmt.Fprintf(out, "\n%sWorking directory to analyze?%s (absolute path, or press Enter to skip)\n", ui.ColorGreen(), ui.ColorReset())
	workDir, err := readLine(reader, out)
	if err != nil {
		return false, err
	}
	cfg.WorkDir = workDir

	fmt.Fprintf(out, "\n%sReady to start research with:%s\n", ui.ColorBlue(), ui.ColorReset())
	fmt.Fprintf(out, "  Query: %s\n", cfg.Query)
	fmt.Fprintf(out, "  Format: %s\n", cfg.Format)
	displayDir := cfg.WorkDir
	if displayDir == "" {
		displayDir = "(none)"
	}
	fmt.Fprintf(out, "  Working Dir: %s\n", displayDir)
	fmt.Fprintln(out, "  Assistants: (decided by orchestrator)")

	return Confirm(reader, out, "Proceed? (Y/n)")
}

// Confirm asks a yes/no question on the terminal. Empty input and anything
// starting with "y" count as yes.
func Confirm(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorGreen(), prompt, ui.ColorReset())
	answer, err := readLine(reader, out)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "" || strings.HasPrefix(answer, "y"), nil
}

// readLine reads one trimmed line after printing the prompt marker. EOF with
// no pending input reads as an empty line so piped input degrades gracefully.
func readLine(reader *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "> ")
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

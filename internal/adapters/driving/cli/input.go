package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// inputLayouts are accepted for --ts, --from, --to and --at, in local time.
var inputLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339,
}

// displayLayout formats timestamps in command output.
const displayLayout = "2006-01-02 15:04"

// parseTime parses a user timestamp. Empty input is the zero time.
func parseTime(flag, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewValidationError(flag, fmt.Sprintf("cannot parse %q, use YYYY-MM-DD[ HH:MM]", s))
}

// parseActor parses "유형:이름". Input without a type is filed as 기타.
func parseActor(s string) domain.ActorRef {
	typ, name, ok := strings.Cut(s, ":")
	if !ok {
		return domain.ActorRef{Type: domain.ActorOther, Name: strings.TrimSpace(s)}
	}
	return domain.ActorRef{Type: domain.ActorType(strings.TrimSpace(typ)), Name: strings.TrimSpace(name)}
}

func parseActors(values []string) []domain.ActorRef {
	out := make([]domain.ActorRef, 0, len(values))
	for _, v := range values {
		out = append(out, parseActor(v))
	}
	return out
}

// floatFlag returns a pointer to the flag value when the flag was set.
func floatFlag(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil, fmt.Errorf("getting %s flag: %w", name, err)
	}
	return &v, nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "일자 미상"
	}
	return t.Local().Format(displayLayout)
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}

// stdinIsTerminal reports whether prompts can be answered. Tests replace it.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// errNeedsConfirmation is returned for destructive commands run
// non-interactively without --yes.
var errNeedsConfirmation = errors.New("confirmation required: re-run with --yes")

// confirm asks a yes/no question unless --yes was given.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !stdinIsTerminal() {
		return false, errNeedsConfirmation
	}
	cmd.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value accepting YYYY-MM-DD, today, tomorrow,
// yesterday or a signed day offset such as +3.
type dateValue struct {
	target *string
	today  func() string
}

var _ pflag.Value = (*dateValue)(nil)

func dateVar(fs *pflag.FlagSet, p *string, name, usage string, today func() string) {
	fs.Var(&dateValue{target: p, today: today}, name, usage)
}

func (d *dateValue) String() string {
	if d.target == nil {
		return ""
	}
	return *d.target
}

func (d *dateValue) Set(s string) error {
	v, err := parseDateArg(s, d.today())
	if err != nil {
		return err
	}
	*d.target = v
	return nil
}

func (d *dateValue) Type() string { return "date" }

func parseDateArg(s, today string) (string, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "today":
		return today, nil
	case "tomorrow":
		return calendar.AddDays(today, 1), nil
	case "yesterday":
		return calendar.AddDays(today, -1), nil
	}
	if s[0] == '+' || s[0] == '-' {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", fmt.Errorf("invalid day offset %q", s)
		}
		return calendar.AddDays(today, n), nil
	}
	if _, err := calendar.ParseDate(s); err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD, today, tomorrow or +N)", s)
	}
	return s, nil
}

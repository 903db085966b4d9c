package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

// Service renders scheduled series for consumption outside the app.
type Service struct {
	schedules *schedule.Service
	now       func() time.Time
}

// NewService creates a new export Service.
func NewService(schedules *schedule.Service) *Service {
	return &Service{
		schedules: schedules,
		now:       time.Now,
	}
}

// Calendar writes an iCalendar feed with one recurring event per active
// series.
func (s *Service) Calendar(ctx context.Context, w io.Writer) error {
	upcoming, err := s.schedules.ListUpcoming(ctx)
	if err != nil {
		return fmt.Errorf("listing upcoming: %w", err)
	}

	stamp := s.now().UTC().Format("20060102T150405Z")

	cw := &calendarWriter{w: w}
	cw.line("BEGIN:VCALENDAR")
	cw.line("VERSION:2.0")
	cw.line("PRODID:-//Finny//Scheduled Transactions//EN")
	cw.line("CALSCALE:GREGORIAN")

	for _, u := range upcoming {
		rule, err := u.Series.Rule.RRule()
		if err != nil {
			return fmt.Errorf("rendering series %s: %w", u.Series.ID, err)
		}

		cw.line("BEGIN:VEVENT")
		cw.line("UID:" + u.Series.ID.String() + "@finny")
		cw.line("DTSTAMP:" + stamp)
		cw.line("SUMMARY:" + escapeText(summaryLine(u.Series.Template)))

		// DTSTART and RRULE lines.
		for l := range strings.SplitSeq(rule, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				cw.line(l)
			}
		}

		cw.line("END:VEVENT")
	}

	cw.line("END:VCALENDAR")

	return cw.err
}

// GenerateSummary creates a plain-text digest of what is coming up next.
func (s *Service) GenerateSummary(ctx context.Context) (string, error) {
	upcoming, err := s.schedules.ListUpcoming(ctx)
	if err != nil {
		return "", fmt.Errorf("listing upcoming: %w", err)
	}

	var sb strings.Builder

	for _, u := range upcoming {
		fmt.Fprintf(&sb, "* %s | %s | %s\n",
			u.Next.Format(time.DateOnly), summaryLine(u.Series.Template), u.Series.Rule.Frequency)
	}

	return sb.String(), nil
}

func summaryLine(t transaction.Details) string {
	amount := float64(t.Amount) / 100.0

	sign := "-"

	switch t.Type {
	case transaction.TypeIncome:
		sign = "+"
	case transaction.TypeTransfer:
		sign = ""
	}

	desc := t.Description
	if desc == "" {
		desc = string(t.Type)
	}

	return fmt.Sprintf("%s %s%.2f €", desc, sign, amount)
}

// escapeText escapes a TEXT value per RFC 5545 section 3.3.11.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	return r.Replace(s)
}

type calendarWriter struct {
	w   io.Writer
	err error
}

func (c *calendarWriter) line(s string) {
	if c.err != nil {
		return
	}

	_, c.err = io.WriteString(c.w, s+"\r\n")
}

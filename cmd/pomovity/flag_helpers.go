package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pomovity/internal/model"
)

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// parseDue accepts YYYY-MM-DD, "today" or "tomorrow". Empty means the
// backend default.
func parseDue(raw string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "today":
		return now.Format(model.DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(model.DateLayout), nil
	}
	if _, err := time.Parse(model.DateLayout, raw); err != nil {
		return "", fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", raw)
	}
	return raw, nil
}

var weekdayAliases = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

// parseWeekdays reads a comma separated list of weekday names or 0-6
// indices (0 = Monday).
func parseWeekdays(raw string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if day, ok := weekdayAliases[part]; ok {
			days = append(days, day)
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	sort.Ints(days)
	return days, nil
}

func formatWeekdays(days []int) string {
	names := make([]string, len(days))
	for i, day := range days {
		names[i] = model.WeekdayName(day)
	}
	return strings.Join(names, ", ")
}

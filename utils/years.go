// backend/utils/years.go
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseYears expands a year list such as "2019-2021,2023" into
// [2019 2020 2021 2023]. Duplicates are dropped, first occurrence wins.
func ParseYears(raw string) ([]int, error) {
	var years []int
	seen := make(map[int]bool)
	add := func(y int) {
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		start, err := parseYear(from)
		if err != nil {
			return nil, err
		}
		if !isRange {
			add(start)
			continue
		}
		end, err := parseYear(to)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("invalid year range %q: end before start", part)
		}
		for y := start; y <= end; y++ {
			add(y)
		}
	}

	if len(years) == 0 {
		return nil, fmt.Errorf("no years in %q", raw)
	}
	return years, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	y, err := strconv.Atoi(s)
	if err != nil || len(s) != 4 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}

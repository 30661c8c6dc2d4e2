// backend/scraper/url.go
package scraper

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildURL fills the {year} and {team_name} placeholders of a query URL
// template. A scheme is added when missing and non-ASCII characters are dropped.
func BuildURL(template string, year int, teamName string) string {
	url := strings.ReplaceAll(template, "{year}", strconv.Itoa(year))
	url = strings.ReplaceAll(url, "{team_name}", teamName)

	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		url = "https://" + url
	}

	var b strings.Builder
	for _, r := range url {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileName is the name a scraped table is saved under: <target>_<year>.csv.
func FileName(target string, year int) string {
	return fmt.Sprintf("%s_%d.csv", target, year)
}

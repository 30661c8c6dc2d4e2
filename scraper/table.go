// backend/scraper/table.go
package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractTable returns the rows of the table with the given id, header rows
// first. Sites that lazy-load secondary tables ship them inside HTML comments,
// so comments are searched when the table is not part of the live DOM.
func ExtractTable(doc *goquery.Document, tableID string) ([][]string, error) {
	selector := "table#" + tableID
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		table = findInComments(doc, tableID, selector)
	}
	if table == nil {
		return nil, fmt.Errorf("table %q not found", tableID)
	}

	var rows [][]string
	head := table.Find("thead tr")
	head.Each(func(_ int, tr *goquery.Selection) {
		rows = append(rows, expandRow(tr))
	})

	body := table.Find("tbody tr")
	if head.Length() == 0 && body.Length() == 0 {
		body = table.Find("tr")
	}
	body.Each(func(_ int, tr *goquery.Selection) {
		// Header rows repeated every few lines of the body.
		if head.Length() > 0 && tr.HasClass("thead") {
			return
		}
		rows = append(rows, expandRow(tr))
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("table %q has no rows", tableID)
	}
	return rows, nil
}

func findInComments(doc *goquery.Document, tableID, selector string) *goquery.Selection {
	marker := `id="` + tableID + `"`
	var found *goquery.Selection
	doc.Find("*").Contents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		node := s.Get(0)
		if node.Type != html.CommentNode || !strings.Contains(node.Data, marker) {
			return true
		}
		inner, err := goquery.NewDocumentFromReader(strings.NewReader(node.Data))
		if err != nil {
			return true
		}
		if t := inner.Find(selector).First(); t.Length() > 0 {
			found = t
			return false
		}
		return true
	})
	return found
}

// expandRow repeats each cell colspan times so grouped headers line up with
// the columns they span.
func expandRow(tr *goquery.Selection) []string {
	var cells []string
	tr.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		span := 1
		if raw, ok := cell.Attr("colspan"); ok {
			if n, err := strconv.Atoi(raw); err == nil && n > 1 {
				span = n
			}
		}
		for i := 0; i < span; i++ {
			cells = append(cells, text)
		}
	})
	return cells
}

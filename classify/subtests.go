package classify

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Subtest is one failing sub-item scraped from a rendered report. Advisory
// only: verdict logic never depends on it.
type Subtest struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

var statusCellRegexp = regexp.MustCompile(`(?i)^(pass|fail|error|timeout|notrun)$`)

// FailingSubtests scrapes failing rows out of a report table. Conformance
// reports render one row per subcase with a status class; the cell layout
// varies across suite versions, so both "status first" and "name first" rows
// are recognized. The result is capped at limit entries and degrades to an
// empty list when the markup is unparseable.
func FailingSubtests(rawPageHTML string, limit int) []Subtest {
	if strings.TrimSpace(rawPageHTML) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPageHTML))
	if err != nil {
		return nil
	}

	var subtests []Subtest
	doc.Find("tr.fail, tr.error").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if limit > 0 && len(subtests) >= limit {
			return false
		}
		subtests = append(subtests, subtestFromRow(row))
		return true
	})
	if len(subtests) > 0 {
		return subtests
	}

	// Some pages mark failures on plain elements instead of table rows.
	doc.Find(".fail").EachWithBreak(func(_ int, element *goquery.Selection) bool {
		if limit > 0 && len(subtests) >= limit {
			return false
		}
		name := compactText(element.Text())
		if name == "" {
			return true
		}
		subtests = append(subtests, Subtest{Name: name, Status: "FAIL"})
		return true
	})
	return subtests
}

func subtestFromRow(row *goquery.Selection) Subtest {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, compactText(cell.Text()))
	})

	subtest := Subtest{Status: "FAIL"}
	switch {
	case len(cells) == 0:
		subtest.Name = compactText(row.Text())
	case statusCellRegexp.MatchString(cells[0]):
		subtest.Status = strings.ToUpper(cells[0])
		if len(cells) > 1 {
			subtest.Name = cells[1]
		}
		if len(cells) > 2 {
			subtest.Message = cells[2]
		}
	default:
		subtest.Name = cells[0]
		if len(cells) > 1 {
			subtest.Message = cells[1]
		}
	}
	return subtest
}

const maxScrapedTextLength = 200

func compactText(text string) string {
	compact := strings.Join(strings.Fields(text), " ")
	if len(compact) > maxScrapedTextLength {
		compact = compact[:maxScrapedTextLength]
	}
	return compact
}

package discovery

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser"
)

const indexNavigationTimeout = 30 * time.Second

// Unit is a single discovered test page.
type Unit struct {
	Name      string
	TargetURL string
}

// Discoverer finds the test units listed on a suite index page.
type Discoverer interface {
	DiscoverUnits(session browser.Session, suiteURL, unitSuffix string) ([]Unit, error)
}

type discoverer struct {
	logger log.Logger
}

// NewDiscoverer ...
func NewDiscoverer(logger log.Logger) Discoverer {
	return discoverer{logger: logger}
}

// DiscoverUnits loads the suite index in the given session and scrapes its
// anchors. Relative hrefs are resolved against the index URL, anchors not
// matching the unit suffix are skipped and duplicate targets are dropped.
// Document order is kept, it defines the execution order of the batch.
func (d discoverer) DiscoverUnits(session browser.Session, suiteURL, unitSuffix string) ([]Unit, error) {
	if err := session.Navigate(suiteURL, indexNavigationTimeout); err != nil {
		return nil, fmt.Errorf("failed to open suite index: %w", err)
	}

	html, err := session.PageHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read suite index: %w", err)
	}

	base, err := url.Parse(suiteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid suite URL (%s): %w", suiteURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse suite index: %w", err)
	}

	var units []Unit
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if unitSuffix != "" && !strings.HasSuffix(href, unitSuffix) {
			return
		}

		targetURL := resolveTargetURL(base, href)
		if targetURL == "" || seen[targetURL] {
			return
		}
		seen[targetURL] = true

		units = append(units, Unit{
			Name:      unitName(anchor, targetURL),
			TargetURL: targetURL,
		})
	})

	if len(units) == 0 {
		return nil, fmt.Errorf("no test units found at %s (unit suffix: %s)", suiteURL, unitSuffix)
	}

	d.logger.Printf("Discovered %d test units", len(units))

	return units, nil
}

// FilterByNames keeps the named units, in the requested order. A name not
// present in the discovered set is an error, a silently dropped selection
// would fake a shorter suite.
func FilterByNames(units []Unit, names []string) ([]Unit, error) {
	byName := make(map[string]Unit, len(units))
	for _, unit := range units {
		byName[unit.Name] = unit
	}

	filtered := make([]Unit, 0, len(names))
	for _, name := range names {
		unit, found := byName[name]
		if !found {
			return nil, fmt.Errorf("test unit %s not found in the suite index", name)
		}
		filtered = append(filtered, unit)
	}
	return filtered, nil
}

// FilterByRange keeps the units selected by a 1-based "N" or "N-M"
// (inclusive) expression. An empty expression keeps everything.
func FilterByRange(units []Unit, rangeExpr string) ([]Unit, error) {
	rangeExpr = strings.TrimSpace(rangeExpr)
	if rangeExpr == "" {
		return units, nil
	}

	first, last, err := parseRangeExpr(rangeExpr)
	if err != nil {
		return nil, err
	}
	if first < 1 || last > len(units) || first > last {
		return nil, fmt.Errorf("test range %s is out of bounds, the suite has %d units", rangeExpr, len(units))
	}

	return units[first-1 : last], nil
}

func parseRangeExpr(rangeExpr string) (int, int, error) {
	firstStr, lastStr, isRange := strings.Cut(rangeExpr, "-")
	if !isRange {
		lastStr = firstStr
	}

	first, err := strconv.Atoi(strings.TrimSpace(firstStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid test range (%s), expected N or N-M", rangeExpr)
	}
	last, err := strconv.Atoi(strings.TrimSpace(lastStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid test range (%s), expected N or N-M", rangeExpr)
	}
	return first, last, nil
}

func resolveTargetURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func unitName(anchor *goquery.Selection, targetURL string) string {
	name := strings.TrimSpace(anchor.Text())
	if name != "" {
		return name
	}
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return targetURL
	}
	return path.Base(parsed.Path)
}

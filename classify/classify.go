package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Verdict ...
type Verdict string

// Verdicts ...
const (
	VerdictPass    Verdict = "PASS"
	VerdictFail    Verdict = "FAIL"
	VerdictError   Verdict = "ERROR"
	VerdictUnknown Verdict = "UNKNOWN"
)

// Subcases holds the fine-grained counters extracted from one rendered test
// page. Passed+Failed <= Total is a goal, not a guarantee: the later,
// heuristic strategies may produce counters that violate it and callers must
// tolerate that.
type Subcases struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Classification ...
type Classification struct {
	Verdict  Verdict
	Subcases Subcases
	Strategy string
}

// Strategy names reported in Classification.Strategy, in cascade order.
const (
	StrategyFoundTestsPassFail = "found-tests-pass-fail"
	StrategyFoundTestsPass     = "found-tests-pass"
	StrategyPassedRatio        = "passed-ratio"
	StrategyPassedFailedCounts = "passed-failed-counts"
	StrategyStatusTokens       = "status-tokens"
	StrategyDOMClasses         = "dom-classes"
	StrategyNumericGuess       = "numeric-guess"
	StrategyTextFallback       = "text-fallback"
)

var (
	foundTestsRegexp  = regexp.MustCompile(`(?i)\bfound\s+(\d+)\s+tests?\b`)
	passCountRegexp   = regexp.MustCompile(`(?i)\b(\d+)\s+pass(?:ed)?\b`)
	failCountRegexp   = regexp.MustCompile(`(?i)\b(\d+)\s+fail(?:ed)?\b`)
	passedRatioRegexp = regexp.MustCompile(`(?i)\b(\d+)\s*/\s*(\d+)\s+tests?\s+passed\b`)
	passTokenRegexp   = regexp.MustCompile(`\bPASS\b`)
	failTokenRegexp   = regexp.MustCompile(`\bFAIL\b`)
	numNearTestRegexp = regexp.MustCompile(`(?i)\b(\d+)\b[^\d\n]{0,24}\btests?\b|\btests?\b[^\d\n]{0,24}\b(\d+)\b`)
)

var completionMarkers = []string{"complete", "finished"}
var errorMarkers = []string{"error", "exception", "crash"}

// Classify converts raw page text and HTML into a structured verdict with
// subcase counters. The remote pages are third-party rendered reports with no
// controlled format, so an ordered cascade of extraction strategies is
// applied and the first match wins, always preferring a structured numeric
// parse over a guess. Classify is pure, deterministic and never fails; the
// worst case degrades to UNKNOWN.
func Classify(rawPageText, rawPageHTML string) Classification {
	if subcases, strategy, ok := matchFoundTestsLine(rawPageText); ok {
		return classification(subcases, strategy)
	}
	if passed, total, ok := matchGroups2(passedRatioRegexp, rawPageText); ok {
		return classification(Subcases{Total: total, Passed: passed, Failed: total - passed}, StrategyPassedRatio)
	}
	if subcases, ok := matchPassedFailedCounts(rawPageText); ok {
		return classification(subcases, StrategyPassedFailedCounts)
	}
	if subcases, ok := countStatusTokens(rawPageText); ok {
		return classification(subcases, StrategyStatusTokens)
	}
	if subcases, ok := countStatusClasses(rawPageHTML); ok {
		return classification(subcases, StrategyDOMClasses)
	}
	if subcases, ok := guessFromNumberNearTest(rawPageText); ok {
		return classification(subcases, StrategyNumericGuess)
	}
	return textFallback(rawPageText)
}

// VerdictFor derives the coarse verdict from subcase counters: FAIL wins over
// everything, PASS requires at least one passed subcase and zero failed ones.
// ERROR is never derived from counters; the executor assigns it directly when
// an exception preempts classification.
func VerdictFor(subcases Subcases) Verdict {
	if subcases.Failed > 0 {
		return VerdictFail
	}
	if subcases.Passed > 0 {
		return VerdictPass
	}
	return VerdictUnknown
}

func classification(subcases Subcases, strategy string) Classification {
	return Classification{
		Verdict:  VerdictFor(subcases),
		Subcases: subcases,
		Strategy: strategy,
	}
}

// matchFoundTestsLine covers the "Found N tests M Pass K Fail" and
// "Found N tests M Pass" summary line formats.
func matchFoundTestsLine(text string) (Subcases, string, bool) {
	total, ok := matchGroup1(foundTestsRegexp, text)
	if !ok {
		return Subcases{}, "", false
	}
	passed, passedFound := matchGroup1(passCountRegexp, text)
	if !passedFound {
		return Subcases{}, "", false
	}
	if failed, failedFound := matchGroup1(failCountRegexp, text); failedFound {
		return Subcases{Total: total, Passed: passed, Failed: failed}, StrategyFoundTestsPassFail, true
	}
	return Subcases{Total: total, Passed: passed}, StrategyFoundTestsPass, true
}

// matchPassedFailedCounts needs both a "P passed" and an "F failed" phrase;
// the total is their sum because these formats never state one.
func matchPassedFailedCounts(text string) (Subcases, bool) {
	passed, passedFound := matchGroup1(passCountRegexp, text)
	failed, failedFound := matchGroup1(failCountRegexp, text)
	if !passedFound || !failedFound {
		return Subcases{}, false
	}
	return Subcases{Total: passed + failed, Passed: passed, Failed: failed}, true
}

// countStatusTokens counts standalone uppercase PASS/FAIL status tokens, the
// convention used by per-subcase result listings.
func countStatusTokens(text string) (Subcases, bool) {
	passed := len(passTokenRegexp.FindAllString(text, -1))
	failed := len(failTokenRegexp.FindAllString(text, -1))
	if passed == 0 && failed == 0 {
		return Subcases{}, false
	}
	return Subcases{Total: passed + failed, Passed: passed, Failed: failed}, true
}

// countStatusClasses counts elements whose class attribute contains "pass" or
// "fail", the convention used by table-styled conformance reports.
func countStatusClasses(rawHTML string) (Subcases, bool) {
	if strings.TrimSpace(rawHTML) == "" {
		return Subcases{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Subcases{}, false
	}

	passed := countElementsWithClassSubstring(doc, "pass")
	failed := countElementsWithClassSubstring(doc, "fail")
	if passed == 0 && failed == 0 {
		return Subcases{}, false
	}
	return Subcases{Total: passed + failed, Passed: passed, Failed: failed}, true
}

func countElementsWithClassSubstring(doc *goquery.Document, substring string) int {
	return doc.Find("[class]").FilterFunction(func(_ int, selection *goquery.Selection) bool {
		class, _ := selection.Attr("class")
		return strings.Contains(strings.ToLower(class), substring)
	}).Length()
}

// guessFromNumberNearTest takes the largest integer appearing near the word
// "test" as the total. This is a known-lossy last resort: unrelated numbers
// (timestamps, durations) near the word can win. Passed is only assumed when
// the page also claims that all tests passed.
func guessFromNumberNearTest(text string) (Subcases, bool) {
	largest := -1
	for _, match := range numNearTestRegexp.FindAllStringSubmatch(text, -1) {
		for _, group := range match[1:] {
			if group == "" {
				continue
			}
			value, err := strconv.Atoi(group)
			if err == nil && value > largest {
				largest = value
			}
		}
	}
	if largest < 0 {
		return Subcases{}, false
	}

	subcases := Subcases{Total: largest}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "all") && strings.Contains(lower, "pass") {
		subcases.Passed = largest
	}
	return subcases, true
}

// textFallback treats the whole page as a single subcase. Error markers win
// over completion markers.
func textFallback(text string) Classification {
	lower := strings.ToLower(text)
	if containsAny(lower, errorMarkers) {
		return Classification{Verdict: VerdictFail, Subcases: Subcases{Total: 1, Failed: 1}, Strategy: StrategyTextFallback}
	}
	if containsAny(lower, completionMarkers) {
		return Classification{Verdict: VerdictPass, Subcases: Subcases{Total: 1, Passed: 1}, Strategy: StrategyTextFallback}
	}
	return Classification{Verdict: VerdictUnknown, Subcases: Subcases{Total: 1}, Strategy: StrategyTextFallback}
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func matchGroup1(re *regexp.Regexp, text string) (int, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

func matchGroups2(re *regexp.Regexp, text string) (int, int, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, 0, false
	}
	first, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, false
	}
	second, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, false
	}
	return first, second, true
}

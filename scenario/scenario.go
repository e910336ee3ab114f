package scenario

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
)

// extractStrategyName marks classifications produced by a scenario extractor
// instead of the generic cascade.
const extractStrategyName = "scenario-metric"

var scenarioErrorRegexp = regexp.MustCompile(`(?i)\b(error|exception|failed to load)\b`)

// ExtractFunc turns the final page content of a scenario run into a
// classification. Returning false hands the page to the generic classifier.
type ExtractFunc func(pageText, pageHTML string) (classify.Classification, bool)

// Scenario is one benchmark page of the suite together with everything
// needed to drive it: the dropdowns to preset, the readiness probe to wait
// on and the extractor that reads its results. New scenarios are catalog
// entries, not new runner code.
type Scenario struct {
	Name            string
	Path            string
	SelectOptions   map[string]string
	CompletionProbe string
	Extract         ExtractFunc
}

// TargetURL resolves the scenario page against the suite base URL.
func (s Scenario) TargetURL(baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid benchmark base URL (%s): %w", baseURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(s.Path)
	if err != nil {
		return "", fmt.Errorf("invalid scenario path (%s): %w", s.Path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Catalog returns the benchmark scenarios the step knows how to drive.
func Catalog() []Scenario {
	return []Scenario{
		{
			Name: "image-classification",
			Path: "image_classification/index.html",
			SelectOptions: map[string]string{
				"#backendSelect": "webgl",
				"#modelSelect":   "mobilenet-v2",
			},
			CompletionProbe: `() => {
				const el = document.querySelector('#inferenceTime');
				return !!el && el.textContent.trim().length > 0;
			}`,
			Extract: metricExtractor(regexp.MustCompile(`(?i)inference time[^0-9]*[\d.]+\s*ms`)),
		},
		{
			Name: "object-detection",
			Path: "object_detection/index.html",
			SelectOptions: map[string]string{
				"#backendSelect": "webgl",
				"#modelSelect":   "ssd-mobilenet-v1",
			},
			CompletionProbe: `() => {
				const results = document.querySelectorAll('#detectionResults .result');
				return results.length > 0;
			}`,
			Extract: metricExtractor(regexp.MustCompile(`(?i)detection time[^0-9]*[\d.]+\s*ms`)),
		},
		{
			Name: "style-transfer",
			Path: "style_transfer/index.html",
			SelectOptions: map[string]string{
				"#backendSelect": "webgl",
			},
			CompletionProbe: `() => {
				const canvas = document.querySelector('#outputCanvas');
				return !!canvas && canvas.dataset.complete === 'true';
			}`,
			Extract: metricExtractor(regexp.MustCompile(`(?i)transfer time[^0-9]*[\d.]+\s*ms`)),
		},
	}
}

// FindByName ...
func FindByName(name string) (Scenario, bool) {
	for _, s := range Catalog() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// metricExtractor builds an extractor that passes a run when the page shows
// the scenario's timing metric and fails it on an error marker. Anything
// else is left to the generic classifier.
func metricExtractor(metricRegexp *regexp.Regexp) ExtractFunc {
	return func(pageText, _ string) (classify.Classification, bool) {
		if metricRegexp.MatchString(pageText) {
			return classify.Classification{
				Verdict:  classify.VerdictPass,
				Subcases: classify.Subcases{Total: 1, Passed: 1},
				Strategy: extractStrategyName,
			}, true
		}
		if scenarioErrorRegexp.MatchString(pageText) {
			return classify.Classification{
				Verdict:  classify.VerdictFail,
				Subcases: classify.Subcases{Total: 1, Failed: 1},
				Strategy: extractStrategyName,
			}, true
		}
		return classify.Classification{}, false
	}
}

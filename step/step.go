package step

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/output"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
	"github.com/bitrise-steplib/steps-browser-conformance-test/scenario"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testrun"
	"github.com/kballard/go-shellquote"
)

const (
	maxRecommendedConcurrency = 16

	defaultDiscoveryRetryWait = 5 * time.Second
)

// Input ...
type Input struct {
	// Suite Parameters
	SuiteURL   string `env:"suite_url,required"`
	UnitSuffix string `env:"unit_suffix"`
	TestCases  string `env:"test_cases"`
	TestRange  string `env:"test_range"`

	// Test Run Configs
	Concurrency           int  `env:"concurrency,required"`
	UnitTimeout           int  `env:"unit_timeout,required"`
	SkipRetries           bool `env:"skip_retries,opt[yes,no]"`
	RunBenchmarkScenarios bool `env:"run_benchmark_scenarios,opt[yes,no]"`

	// Browser Configs
	BrowserPath          string `env:"browser_path"`
	HeadlessMode         bool   `env:"headless_mode,opt[yes,no]"`
	BrowserLaunchOptions string `env:"browser_launch_options"`

	// Debug
	Verbose                   bool   `env:"verbose,opt[yes,no]"`
	CollectSessionDiagnostics string `env:"collect_session_diagnostics,opt[always,on_failure,never]"`

	// Output export
	DeployDir string `env:"BITRISE_DEPLOY_DIR"`
}

type exportCondition int

const (
	invalid exportCondition = iota
	always
	never
	onFailure
)

func parseExportCondition(condition string) exportCondition {
	switch condition {
	case "always":
		return always
	case "never":
		return never
	case "on_failure":
		return onFailure
	default:
		return invalid
	}
}

// Config ...
type Config struct {
	SuiteURL   string
	SuiteName  string
	UnitSuffix string
	TestCases  []string
	TestRange  string

	Concurrency           int
	UnitTimeout           time.Duration
	SkipRetries           bool
	RunBenchmarkScenarios bool

	BrowserPath    string
	BrowserVersion string
	HeadlessMode   bool
	LaunchOptions  []string

	SessionDebug exportCondition

	DeployDir string
}

// BrowserTestConfigParser ...
type BrowserTestConfigParser struct {
	inputParser    stepconf.InputParser
	logger         log.Logger
	browserEnsurer browser.Ensurer
	versionReader  browser.VersionReader
	pathModifier   pathutil.PathModifier
}

// NewBrowserTestConfigParser ...
func NewBrowserTestConfigParser(inputParser stepconf.InputParser, logger log.Logger, browserEnsurer browser.Ensurer, versionReader browser.VersionReader, pathModifier pathutil.PathModifier) BrowserTestConfigParser {
	return BrowserTestConfigParser{
		inputParser:    inputParser,
		logger:         logger,
		browserEnsurer: browserEnsurer,
		versionReader:  versionReader,
		pathModifier:   pathModifier,
	}
}

// ProcessConfig ...
func (s BrowserTestConfigParser) ProcessConfig() (Config, error) {
	var input Input
	err := s.inputParser.Parse(&input)
	if err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	s.logger.Println()

	s.logger.EnableDebugLog(input.Verbose)

	// validate suite URL
	suiteURL, err := url.Parse(input.SuiteURL)
	if err != nil {
		return Config{}, fmt.Errorf("invalid Suite URL (%s), error: %s", input.SuiteURL, err)
	}
	if suiteURL.Scheme != "http" && suiteURL.Scheme != "https" {
		return Config{}, fmt.Errorf("invalid Suite URL (%s), scheme should be http or https", input.SuiteURL)
	}
	if suiteURL.Host == "" {
		return Config{}, fmt.Errorf("invalid Suite URL (%s), host is missing", input.SuiteURL)
	}

	// validate test selection
	testCases := splitTestCases(input.TestCases)
	if len(testCases) > 0 && input.TestRange != "" {
		return Config{}, errors.New("Test Cases (test_cases) and Test Range (test_range) cannot be used together")
	}

	// validate concurrency
	concurrency := input.Concurrency
	if concurrency < 1 {
		return Config{}, fmt.Errorf("invalid Concurrency (concurrency): %d, should be more than 0", concurrency)
	}
	if concurrency > maxRecommendedConcurrency {
		s.logger.Warnf("Concurrency (concurrency) is set to %d, maximum supported is %d, falling back to %d", concurrency, maxRecommendedConcurrency, maxRecommendedConcurrency)
		concurrency = maxRecommendedConcurrency
	}

	// validate unit timeout
	if input.UnitTimeout < 1 {
		return Config{}, fmt.Errorf("invalid Unit Timeout (unit_timeout): %d, should be more than 0", input.UnitTimeout)
	}

	// validate session diagnosis mode
	sessionDebug := parseExportCondition(input.CollectSessionDiagnostics)
	if sessionDebug == invalid {
		return Config{}, fmt.Errorf("internal error, unexpected value (%s) for collect_session_diagnostics", input.CollectSessionDiagnostics)
	}

	// parse browser launch options
	var launchOptions []string
	if input.BrowserLaunchOptions != "" {
		launchOptions, err = shellquote.Split(input.BrowserLaunchOptions)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse browser launch options (%s), error: %s", input.BrowserLaunchOptions, err)
		}
	}

	// resolve browser binary
	preferredPath := ""
	if input.BrowserPath != "" {
		preferredPath, err = s.pathModifier.AbsPath(input.BrowserPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute browser path, error: %s", err)
		}
	}

	// The lookup can involve downloading a managed browser build, transient
	// network failures are worth a blind retry.
	var browserPath string
	if err := retry.Times(3).Wait(5 * time.Second).Try(func(attempt uint) error {
		var errEnsure error
		browserPath, errEnsure = s.browserEnsurer.EnsureBrowser(preferredPath)
		if errEnsure != nil {
			s.logger.Warnf("attempt %d to ensure the browser binary failed with error: %s", attempt, errEnsure)
		}
		return errEnsure
	}); err != nil {
		return Config{}, fmt.Errorf("browser binary lookup failed: %s", err)
	}

	// validate browser version
	browserVersion, err := s.versionReader.ReadVersion(browserPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to determine browser version, error: %s", err)
	}
	s.logger.Printf("- browserVersion: %s", browserVersion.Raw)

	if browserVersion.Major < browser.MinSupportedMajorVersion {
		return Config{}, fmt.Errorf("invalid browser major version (%d), should not be less then min supported: %d", browserVersion.Major, browser.MinSupportedMajorVersion)
	}

	return Config{
		SuiteURL:   input.SuiteURL,
		SuiteName:  suiteURL.Host,
		UnitSuffix: input.UnitSuffix,
		TestCases:  testCases,
		TestRange:  input.TestRange,

		Concurrency:           concurrency,
		UnitTimeout:           time.Duration(input.UnitTimeout) * time.Second,
		SkipRetries:           input.SkipRetries,
		RunBenchmarkScenarios: input.RunBenchmarkScenarios,

		BrowserPath:    browserPath,
		BrowserVersion: browserVersion.Raw,
		HeadlessMode:   input.HeadlessMode,
		LaunchOptions:  launchOptions,

		SessionDebug: sessionDebug,

		DeployDir: input.DeployDir,
	}, nil
}

// Result ...
type Result struct {
	SuiteURL       string
	SuiteName      string
	BrowserVersion string
	DeployDir      string

	SuiteResults    []results.Result
	ScenarioResults []results.Result

	RunLog                 string
	SessionDiagnosticsPath string
}

// TestsFailed reports whether the run produced any non-PASS unit. An empty
// suite run counts as failed, it means nothing got executed.
func (r Result) TestsFailed() bool {
	if !results.Summarize(r.SuiteResults).AllPassed() {
		return true
	}
	for _, scenarioResult := range r.ScenarioResults {
		if scenarioResult.Verdict != classify.VerdictPass {
			return true
		}
	}
	return false
}

// BrowserTestRunner ...
type BrowserTestRunner struct {
	logger         log.Logger
	manager        browser.Manager
	discoverer     discovery.Discoverer
	scheduler      testrun.Scheduler
	retryRunner    testrun.RetryRunner
	outputExporter output.Exporter

	discoveryRetryWait time.Duration
}

// NewBrowserTestRunner ...
func NewBrowserTestRunner(logger log.Logger, manager browser.Manager, discoverer discovery.Discoverer, scheduler testrun.Scheduler, retryRunner testrun.RetryRunner, outputExporter output.Exporter) BrowserTestRunner {
	return BrowserTestRunner{
		logger:         logger,
		manager:        manager,
		discoverer:     discoverer,
		scheduler:      scheduler,
		retryRunner:    retryRunner,
		outputExporter: outputExporter,

		discoveryRetryWait: defaultDiscoveryRetryWait,
	}
}

// Run ...
func (s BrowserTestRunner) Run(cfg Config) (Result, error) {
	launchSpec := browser.LaunchSpec{
		BinaryPath:    cfg.BrowserPath,
		Headless:      cfg.HeadlessMode,
		LaunchOptions: cfg.LaunchOptions,
	}

	units, err := s.discoverUnits(cfg, launchSpec)
	if err != nil {
		return Result{}, err
	}

	units, err = selectUnits(units, cfg.TestCases, cfg.TestRange)
	if err != nil {
		return Result{}, err
	}
	if len(units) == 0 {
		return Result{}, errors.New("no test units to run after applying the test selection")
	}

	result := Result{
		SuiteURL:       cfg.SuiteURL,
		SuiteName:      cfg.SuiteName,
		BrowserVersion: cfg.BrowserVersion,
		DeployDir:      cfg.DeployDir,
	}

	execOptions := testrun.ExecOptions{UnitTimeout: cfg.UnitTimeout}

	suiteResults, batchErr := s.scheduler.RunBatch(units, testrun.BatchOptions{
		Concurrency: cfg.Concurrency,
		LaunchSpec:  launchSpec,
		ExecOptions: execOptions,
	})
	if batchErr != nil {
		s.logger.Errorf("Conformance batch failed: %s", batchErr)
	}

	if batchErr == nil && !cfg.SkipRetries {
		suiteResults = s.retryRunner.RunRetries(suiteResults, testrun.RetryOptions{
			LaunchSpec:  launchSpec,
			ExecOptions: execOptions,
			Policy:      testrun.RequireStablePair(),
		})
	}

	results.SortByName(suiteResults)
	result.SuiteResults = suiteResults

	if batchErr == nil && cfg.RunBenchmarkScenarios {
		result.ScenarioResults = s.runBenchmarkScenarios(cfg, launchSpec)
	}

	result.RunLog = buildRunLog(result.SuiteResults, result.ScenarioResults)

	testsFailed := batchErr != nil || result.TestsFailed()
	if cfg.SessionDebug == always || (cfg.SessionDebug == onFailure && testsFailed) {
		s.logger.Println()
		s.logger.Infof("Collecting browser session diagnostics")

		diagnosticsPath, err := s.manager.CollectDiagnostics()
		if err != nil {
			s.logger.Warnf("%v", err)
		} else {
			s.logger.Donef("Browser session diagnostics are available as an artifact (%s)", diagnosticsPath)
			result.SessionDiagnosticsPath = diagnosticsPath
		}
	}

	printSummary(s.logger, result)

	if batchErr != nil {
		return result, batchErr
	}

	s.logger.Println()
	s.logger.Infof("Browser conformance test run finished.")

	return result, nil
}

// discoverUnits scrapes the suite index on a short lived session. The index
// fetch goes over the network and browser startup can be flaky right after
// provisioning, both are worth a blind retry.
func (s BrowserTestRunner) discoverUnits(cfg Config, launchSpec browser.LaunchSpec) ([]discovery.Unit, error) {
	var units []discovery.Unit
	if err := retry.Times(3).Wait(s.discoveryRetryWait).Try(func(attempt uint) error {
		session, errLaunch := s.manager.Launch(launchSpec)
		if errLaunch != nil {
			s.logger.Warnf("attempt %d to discover test units failed with error: %s", attempt, errLaunch)
			return errLaunch
		}
		defer func() {
			if err := session.Close(); err != nil {
				s.logger.Debugf("Failed to close discovery session: %s", err)
			}
		}()

		discovered, errDiscover := s.discoverer.DiscoverUnits(session, cfg.SuiteURL, cfg.UnitSuffix)
		if errDiscover != nil {
			s.logger.Warnf("attempt %d to discover test units failed with error: %s", attempt, errDiscover)
			return errDiscover
		}

		units = discovered
		return nil
	}); err != nil {
		return nil, fmt.Errorf("test unit discovery failed: %s", err)
	}

	return units, nil
}

// runBenchmarkScenarios drives the catalog scenarios one by one on fresh
// sessions. A scenario that cannot run does not abort the others, its absence
// shows up in the exported report.
func (s BrowserTestRunner) runBenchmarkScenarios(cfg Config, launchSpec browser.LaunchSpec) []results.Result {
	s.logger.Println()
	s.logger.Infof("Running benchmark scenarios")

	var scenarioResults []results.Result
	for _, sc := range scenario.Catalog() {
		sc := sc

		targetURL, err := sc.TargetURL(cfg.SuiteURL)
		if err != nil {
			s.logger.Warnf("Skipping benchmark scenario %s: %s", sc.Name, err)
			continue
		}

		execOptions := testrun.ExecOptions{UnitTimeout: cfg.UnitTimeout, Scenario: &sc}

		unit := discovery.Unit{Name: sc.Name, TargetURL: targetURL}
		batchResults, err := s.scheduler.RunBatch([]discovery.Unit{unit}, testrun.BatchOptions{
			Concurrency: 1,
			LaunchSpec:  launchSpec,
			ExecOptions: execOptions,
		})
		if err != nil {
			s.logger.Warnf("Benchmark scenario %s aborted: %s", sc.Name, err)
			continue
		}

		if !cfg.SkipRetries {
			batchResults = s.retryRunner.RunRetries(batchResults, testrun.RetryOptions{
				LaunchSpec:  launchSpec,
				ExecOptions: execOptions,
				Policy:      testrun.AcceptFirstPass(),
			})
		}

		scenarioResults = append(scenarioResults, batchResults...)
	}

	return scenarioResults
}

// Export ...
func (s BrowserTestRunner) Export(result Result, testsFailed bool) error {
	// export test run status
	s.outputExporter.ExportTestRunResult(testsFailed)

	// export the JSON test report
	if len(result.SuiteResults) > 0 || len(result.ScenarioResults) > 0 {
		allResults := append(append([]results.Result{}, result.SuiteResults...), result.ScenarioResults...)
		report := results.NewReport(result.SuiteURL, result.BrowserVersion, allResults)

		if err := s.outputExporter.ExportTestReport(result.DeployDir, result.SuiteName, report); err != nil {
			return err
		}
	}

	// export the raw run log
	if result.RunLog != "" {
		if err := s.outputExporter.ExportRunLog(result.DeployDir, result.RunLog); err != nil {
			s.logger.Warnf("Failed to export the run log: %s", err)
		}
	}

	// export browser session diagnostics
	if result.SessionDiagnosticsPath != "" {
		diagnosticsName, err := s.manager.DiagnosticsName()
		if err != nil {
			return err
		}

		if err := s.outputExporter.ExportSessionDiagnostics(result.DeployDir, result.SessionDiagnosticsPath, diagnosticsName); err != nil {
			s.logger.Warnf("Failed to export session diagnostics: %s", err)
		}
	}

	return nil
}

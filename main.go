package main

import (
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-steputils/v2/stepenv"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/output"
	"github.com/bitrise-steplib/steps-browser-conformance-test/step"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testaddon"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testrun"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()

	configParser := createConfigParser(logger)
	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	runner := createRunner(logger)
	result, runErr := runner.Run(config)

	testsFailed := runErr != nil || result.TestsFailed()
	exportErr := runner.Export(result, testsFailed)

	if runErr != nil {
		logger.Println()
		logger.Errorf("Run: %s", runErr)
		return 1
	}

	if exportErr != nil {
		logger.Println()
		logger.Errorf("Export outputs: %s", exportErr)
		return 1
	}

	if testsFailed {
		return 1
	}

	logger.Println()
	logger.Donef("Browser conformance suite passed")

	return 0
}

func createConfigParser(logger log.Logger) step.BrowserTestConfigParser {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	commandFactory := command.NewFactory(envRepository)
	pathChecker := pathutil.NewPathChecker()
	pathModifier := pathutil.NewPathModifier()
	browserEnsurer := browser.NewEnsurer(pathChecker, logger)
	versionReader := browser.NewVersionReader(commandFactory)

	return step.NewBrowserTestConfigParser(inputParser, logger, browserEnsurer, versionReader, pathModifier)
}

func createRunner(logger log.Logger) step.BrowserTestRunner {
	envRepository := env.NewRepository()
	commandFactory := command.NewFactory(envRepository)
	pathProvider := pathutil.NewPathProvider()
	fileManager := fileutil.NewFileManager()

	launcher := browser.NewLauncher(logger)
	manager := browser.NewManager(launcher, commandFactory, pathProvider, fileManager, logger)
	discoverer := discovery.NewDiscoverer(logger)
	executor := testrun.NewExecutor(logger)
	scheduler := testrun.NewScheduler(executor, manager, logger)
	retryRunner := testrun.NewRetryRunner(executor, manager, logger)

	stepenvRepository := stepenv.NewRepository(envRepository)
	outputExporter := output.NewExporter(stepenvRepository, logger, export.NewExporter(commandFactory), testaddon.NewExporter(testaddon.NewTestAddon(logger, commandFactory)))

	return step.NewBrowserTestRunner(logger, manager, discoverer, scheduler, retryRunner, outputExporter)
}

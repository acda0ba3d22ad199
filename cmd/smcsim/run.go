package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"sort"

	"github.com/google/pprof/profile"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/smc/monitor"
	"github.com/sarchlab/smc/sim"
	"github.com/sarchlab/smc/tracestore"
)

var (
	scenarioFlag   string
	monitorOn      bool
	monitorPort    int
	tracePath      string
	cpuProfilePath string
	openDashboard  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one or all of the controller's testable-property scenarios",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&scenarioFlag, "scenario", "all",
		"scenario to run: S1-S6, or \"all\"")
	runCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"start the HTTP monitoring dashboard")
	runCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port for the monitoring dashboard (0 = random); overrides MONITOR_PORT from .env")
	runCmd.Flags().StringVar(&tracePath, "trace", "",
		"if set, record completed transactions to this SQLite database")
	runCmd.Flags().StringVar(&cpuProfilePath, "cpuprofile", "",
		"if set, write a CPU profile here and print its top functions")
	runCmd.Flags().BoolVar(&openDashboard, "open", false,
		"open the dashboard in a browser once the monitor starts")
}

func runRun(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	if monitorPort == 0 {
		if p := os.Getenv("MONITOR_PORT"); p != "" {
			fmt.Sscanf(p, "%d", &monitorPort)
		}
	}

	var profileFile *os.File
	if cpuProfilePath != "" {
		var err error

		profileFile, err = os.Create(cpuProfilePath)
		if err != nil {
			return err
		}

		if err := pprof.StartCPUProfile(profileFile); err != nil {
			return err
		}
	}

	var store *tracestore.Store
	if tracePath != "" {
		store = tracestore.NewStore(tracePath)
		store.Init()
		onTransactionComplete = store.Hook()
	}

	var mon *monitor.Monitor
	if monitorOn {
		mon = monitor.New().WithPortNumber(monitorPort)
		mon.StartServer()

		if store != nil {
			hook, txHook := onTransactionComplete, mon.TransactionHook()
			onTransactionComplete = func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int) {
				hook(kind, address, chargeTime, levelsWalked)
				txHook(kind, address, chargeTime, levelsWalked)
			}
		} else {
			onTransactionComplete = mon.TransactionHook()
		}

		if openDashboard {
			_ = browser.OpenURL("http://localhost")
		}
	}

	selected, err := selectScenarios(scenarioFlag)
	if err != nil {
		return err
	}

	failures := 0

	for _, s := range selected {
		bar := newDashboardBar(mon, s.name)

		err := s.run()

		if mon != nil {
			mon.CompleteProgressBar(bar)
		}

		if err != nil {
			fmt.Printf("%s: FAIL (%v)\n", s.name, err)
			failures++

			continue
		}

		fmt.Printf("%s: PASS\n", s.name)
	}

	if store != nil {
		store.Flush()
	}

	if cpuProfilePath != "" {
		pprof.StopCPUProfile()
		profileFile.Close()
		printProfileSummary(cpuProfilePath)
	}

	atexit.Exit(exitCode(failures))

	return nil
}

func newDashboardBar(mon *monitor.Monitor, name string) *monitor.ProgressBar {
	if mon == nil {
		return nil
	}

	return mon.CreateProgressBar(name, 1)
}

func selectScenarios(name string) ([]scenario, error) {
	if name == "all" || name == "" {
		return scenarios, nil
	}

	for _, s := range scenarios {
		if s.name == name {
			return []scenario{s}, nil
		}
	}

	return nil, fmt.Errorf("unknown scenario %q", name)
}

func exitCode(failures int) int {
	if failures > 0 {
		return 1
	}

	return 0
}

func printProfileSummary(path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer f.Close()

	prof, err := profile.Parse(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	type sample struct {
		name  string
		value int64
	}

	totals := make(map[string]int64)
	for _, s := range prof.Sample {
		for _, loc := range s.Location {
			for _, line := range loc.Line {
				totals[line.Function.Name] += s.Value[0]
			}
		}
	}

	ranked := make([]sample, 0, len(totals))
	for name, v := range totals {
		ranked = append(ranked, sample{name, v})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].value > ranked[j].value })

	fmt.Println("Top functions by sample count:")

	for i, s := range ranked {
		if i >= 10 {
			break
		}

		fmt.Printf("  %8d  %s\n", s.value, s.name)
	}
}

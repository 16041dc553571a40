// Command deconflict-check runs a one-shot deconfliction check from
// JSON mission files on disk: one primary mission and zero or more
// traffic missions, printing the pinned text report to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goforj/godump"

	"github.com/aerodeck/deconflict/pkg/deconflict"
	"github.com/aerodeck/deconflict/pkg/log"
	"github.com/aerodeck/deconflict/pkg/mission"
	"github.com/aerodeck/deconflict/pkg/util"
)

func main() {
	primaryPath := flag.String("primary", "", "path to the primary mission JSON file")
	trafficDir := flag.String("traffic", "", "directory of traffic mission JSON files")
	dump := flag.Bool("dump", false, "dump the raw assessed conflicts with godump before printing the report")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	lg := log.New(false, *logLevel, "")

	if *primaryPath == "" {
		lg.Errorf("missing -primary")
		os.Exit(2)
	}

	primary, err := loadMission(*primaryPath)
	if err != nil {
		lg.Errorf("load primary mission: %v", err)
		os.Exit(1)
	}

	engine, err := deconflict.NewEngine(deconflict.DefaultConfig())
	if err != nil {
		lg.Errorf("configure engine: %v", err)
		os.Exit(1)
	}

	if *trafficDir != "" {
		entries, err := os.ReadDir(*trafficDir)
		if err != nil {
			lg.Errorf("read traffic dir: %v", err)
			os.Exit(1)
		}
		files := util.FilterSlice(entries, func(e os.DirEntry) bool { return !e.IsDir() })

		var errs util.ErrorLogger
		for _, entry := range files {
			errs.Push(entry.Name())
			m, err := loadMission(fmt.Sprintf("%s/%s", *trafficDir, entry.Name()))
			if err != nil {
				errs.Error(err)
			} else if err := engine.RegisterMission(m); err != nil {
				errs.Error(err)
			}
			errs.Pop()
		}
		if errs.HaveErrors() {
			errs.PrintErrors(lg)
		}
	}

	cleared, conflicts, metrics, err := engine.CheckMission(context.Background(), primary)
	if err != nil {
		lg.Errorf("check_mission failed: %v", err)
		os.Exit(1)
	}

	if *dump {
		godump.Dump(conflicts)
	}

	fmt.Print(deconflict.GenerateReport(primary, cleared, conflicts, metrics, time.Now()))
	if !cleared {
		os.Exit(1)
	}
}

func loadMission(path string) (mission.Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mission.Mission{}, fmt.Errorf("read %s: %w", path, err)
	}
	return mission.Unmarshal(data)
}

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/Garsondee/Dungeon-Sense/internal/logger"
)

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var cellsW, cellsH int
	var hostiles int
	var configPath string
	var debug bool

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run (60 per second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&cellsW, "cells-w", 24, "maze width in cells")
	flag.IntVar(&cellsH, "cells-h", 18, "maze height in cells")
	flag.IntVar(&hostiles, "hostiles", 30, "hostile population per run")
	flag.StringVar(&configPath, "config", "", "optional JSON config file")
	flag.BoolVar(&debug, "debug", false, "print a debug report after each run")
	flag.Parse()

	logger.Init()
	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	cfg, err := game.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("load config")
	}

	fmt.Printf("=== Headless Dungeon Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d cells=%dx%d hostiles=%d\n\n",
		runs, ticks, seedBase, seedStep, cellsW, cellsH, hostiles)

	all := make([]game.RunReport, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		opts := []game.SimOption{
			game.WithConfig(func(c *game.Config) { *c = cfg }),
			game.WithCells(cellsW, cellsH),
			game.WithHostileCount(hostiles),
		}
		if debug {
			ts := game.AutopilotSim(seed, ticks, opts...)
			r := game.BuildRunReport(ts)
			all = append(all, r)
			fmt.Printf("--- Run %d ---\n%s", i+1, r.Format())
			fmt.Println(game.DebugReport(ts.World, ts.SimLog, 20))
			continue
		}
		r := game.RunAutopilot(seed, ticks, opts...)
		all = append(all, r)
		fmt.Printf("--- Run %d ---\n%s", i+1, r.Format())
	}
	fmt.Println()
	fmt.Print(aggregate(all).Format())
}

// summary aggregates RunReports across runs.
type summary struct {
	runs        int
	survivors   int
	exits       int
	kills       int
	dealt       float64
	taken       float64
	exploredPct float64
	deadEnds    int
	deathTicks  []int
	exitTicks   []int
	deadByType  map[string]int
	spawnByType map[string]int
}

func aggregate(all []game.RunReport) summary {
	s := summary{runs: len(all), deadByType: map[string]int{}, spawnByType: map[string]int{}}
	for _, r := range all {
		if r.Survived {
			s.survivors++
		} else {
			s.deathTicks = append(s.deathTicks, r.DeathTick)
		}
		if r.ExitReached {
			s.exits++
			s.exitTicks = append(s.exitTicks, r.ExitTick)
		}
		s.kills += r.Kills
		s.dealt += r.DamageDealt
		s.taken += r.DamageTaken
		s.exploredPct += r.ExploredPct
		s.deadEnds += r.DeadEnds
		for _, t := range r.Types {
			s.deadByType[t.Name] += t.Dead
			s.spawnByType[t.Name] += t.Spawn
		}
	}
	return s
}

func (s summary) Format() string {
	var b strings.Builder
	n := s.runs
	fmt.Fprintln(&b, "=== Aggregate ===")
	fmt.Fprintf(&b, "runs=%d survival=%.0f%% exit_rate=%.0f%%\n", n, pct(s.survivors, n), pct(s.exits, n))
	fmt.Fprintf(&b, "avg_per_run: kills=%.1f dealt=%.0f taken=%.0f explored=%.1f%% dead_ends=%.1f\n",
		avg(s.kills, n), avgF(s.dealt, n), avgF(s.taken, n), avgF(s.exploredPct, n), avg(s.deadEnds, n))
	fmt.Fprintf(&b, "avg_ticks: death=%s exit=%s\n", avgTickString(s.deathTicks), avgTickString(s.exitTicks))

	names := make([]string, 0, len(s.spawnByType))
	for name := range s.spawnByType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-7s killed=%d/%d (%.0f%%)\n", name, s.deadByType[name], s.spawnByType[name],
			pct(s.deadByType[name], s.spawnByType[name]))
	}
	return b.String()
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgF(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

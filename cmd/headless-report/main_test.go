package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
)

func TestAggregate_Totals(t *testing.T) {
	runs := []game.RunReport{
		{Survived: true, ExitReached: true, ExitTick: 900, Kills: 3, DamageTaken: 40, ExploredPct: 50,
			Types: []game.TypeTally{{Name: "green", Spawn: 4, Dead: 3}}},
		{Survived: false, DeathTick: 600, Kills: 1, DamageTaken: 120, ExploredPct: 30,
			Types: []game.TypeTally{{Name: "green", Spawn: 2, Dead: 1}, {Name: "red", Spawn: 1}}},
	}
	s := aggregate(runs)
	if s.survivors != 1 || s.exits != 1 || s.kills != 4 {
		t.Fatalf("survivors=%d exits=%d kills=%d", s.survivors, s.exits, s.kills)
	}
	if s.deadByType["green"] != 4 || s.spawnByType["green"] != 6 || s.spawnByType["red"] != 1 {
		t.Fatalf("by type dead=%v spawn=%v", s.deadByType, s.spawnByType)
	}
	out := s.Format()
	for _, want := range []string{"survival=50%", "exit_rate=50%", "death=600.0", "exit=900.0", "green   killed=4/6"} {
		if !strings.Contains(out, want) {
			t.Fatalf("aggregate missing %q:\n%s", want, out)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	out := aggregate(nil).Format()
	if !strings.Contains(out, "runs=0") || !strings.Contains(out, "death=n/a") {
		t.Fatalf("empty aggregate:\n%s", out)
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("got %q", got)
	}
	if got := avgTickString([]int{10, 20}); got != "15.0" {
		t.Fatalf("got %q", got)
	}
}

func TestAutopilotSim_MatchesRunAutopilot(t *testing.T) {
	opts := []game.SimOption{game.WithCells(10, 8), game.WithHostileCount(6)}
	a := game.BuildRunReport(game.AutopilotSim(11, 300, opts...))
	b := game.RunAutopilot(11, 300, opts...)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("debug path diverged:\n%s\n%s", a.Format(), b.Format())
	}
}

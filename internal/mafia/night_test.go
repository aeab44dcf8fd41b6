package mafia

import (
	"slices"
	"testing"
)

func nightPlayer(id string, kind RoleKind) *Player {
	return &Player{
		Participant: Participant{ID: ParticipantID(id), Name: id},
		Role:        kind,
		Alive:       true,
	}
}

func deathsOf(r *NightReport) []string {
	out := make([]string, len(r.Deaths))
	for i, id := range r.Deaths {
		out[i] = string(id)
	}
	slices.Sort(out)
	return out
}

func TestMafiaMajorityKill(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("m1", RoleMafia),
		nightPlayer("m2", RoleMafia),
		nightPlayer("m3", RoleMafia),
		nightPlayer("v1", RoleVillager),
		nightPlayer("v2", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "m1", Target: "v1", Seq: 1},
		{Actor: "m2", Target: "v2", Seq: 2},
		{Actor: "m3", Target: "v1", Seq: 3},
	})
	if got := deathsOf(report); !slices.Equal(got, []string{"v1"}) {
		t.Errorf("deaths = %v, want [v1]", got)
	}
}

func TestMafiaKillTieFavoursFirstSubmission(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("m1", RoleMafia),
		nightPlayer("m2", RoleMafia),
		nightPlayer("v1", RoleVillager),
		nightPlayer("v2", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "m2", Target: "v2", Seq: 2},
		{Actor: "m1", Target: "v1", Seq: 1},
	})
	if got := deathsOf(report); !slices.Equal(got, []string{"v1"}) {
		t.Errorf("deaths = %v, want [v1] (earliest submission wins the tie)", got)
	}
}

func TestDoctorCancelsKill(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("m1", RoleMafia),
		nightPlayer("d1", RoleDoctor),
		nightPlayer("v1", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "m1", Target: "v1", Seq: 1},
		{Actor: "d1", Target: "v1", Seq: 2},
	})
	if len(report.Deaths) != 0 {
		t.Errorf("deaths = %v, want none", report.Deaths)
	}
	if !slices.Contains(report.Saved, ParticipantID("v1")) {
		t.Error("v1 should be recorded as saved")
	}
}

func TestBodyguardDiesInPlace(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("m1", RoleMafia),
		nightPlayer("b1", RoleBodyguard),
		nightPlayer("v1", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "m1", Target: "v1", Seq: 1},
		{Actor: "b1", Target: "v1", Seq: 2},
	})
	if got := deathsOf(report); !slices.Equal(got, []string{"b1"}) {
		t.Errorf("deaths = %v, want [b1]", got)
	}
	if !slices.Contains(report.Saved, ParticipantID("v1")) {
		t.Error("v1 should be recorded as saved")
	}
}

func TestBlockDiscardsAction(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("e1", RoleEscort),
		nightPlayer("sk", RoleSerialKiller),
		nightPlayer("v1", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "sk", Target: "v1", Seq: 1},
		{Actor: "e1", Target: "sk", Seq: 2},
	})
	if len(report.Deaths) != 0 {
		t.Errorf("deaths = %v, want none (killer was blocked)", report.Deaths)
	}
}

func TestBlockedProtectorKeepsNoMemory(t *testing.T) {
	t.Parallel()
	doc := nightPlayer("d1", RoleDoctor)
	players := []*Player{
		nightPlayer("e1", RoleEscort),
		doc,
		nightPlayer("v1", RoleVillager),
	}
	ResolveNight(players, []Submission{
		{Actor: "d1", Target: "v1", Seq: 1},
		{Actor: "e1", Target: "d1", Seq: 2},
	})
	if doc.PreviousTarget != "" {
		t.Errorf("blocked doctor remembers %q, want no patient recorded", doc.PreviousTarget)
	}

	ResolveNight(players, []Submission{
		{Actor: "d1", Target: "v1", Seq: 1},
	})
	if doc.PreviousTarget != ParticipantID("v1") {
		t.Errorf("doctor remembers %q, want v1", doc.PreviousTarget)
	}
}

func TestNeutralKillerResolvesIndependently(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("m1", RoleMafia),
		nightPlayer("sk", RoleSerialKiller),
		nightPlayer("v1", RoleVillager),
		nightPlayer("v2", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "m1", Target: "v1", Seq: 1},
		{Actor: "sk", Target: "v2", Seq: 2},
	})
	if got := deathsOf(report); !slices.Equal(got, []string{"v1", "v2"}) {
		t.Errorf("deaths = %v, want [v1 v2]", got)
	}
}

func TestFramerFlipsApparentAlignment(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("f1", RoleFramer),
		nightPlayer("det", RoleDetective),
		nightPlayer("v1", RoleVillager),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "f1", Target: "v1", Seq: 1},
		{Actor: "det", Target: "v1", Seq: 2},
	})
	if len(report.Investigations) != 1 {
		t.Fatalf("investigations = %d, want 1", len(report.Investigations))
	}
	if got := report.Investigations[0].Result; got != "Mafia" {
		t.Errorf("framed villager appears as %q, want Mafia", got)
	}
}

func TestGodfatherInvestigations(t *testing.T) {
	t.Parallel()
	players := []*Player{
		nightPlayer("gf", RoleGodfather),
		nightPlayer("det", RoleDetective),
		nightPlayer("con", RoleConsigliere),
	}
	report := ResolveNight(players, []Submission{
		{Actor: "det", Target: "gf", Seq: 1},
		{Actor: "con", Target: "det", Seq: 2},
	})
	results := make(map[ParticipantID]string)
	for _, inv := range report.Investigations {
		results[inv.Investigator] = inv.Result
	}
	if results["det"] != "Town" {
		t.Errorf("detective sees godfather as %q, want Town", results["det"])
	}
	if results["con"] != "Detective" {
		t.Errorf("consigliere sees detective as %q, want exact role", results["con"])
	}
}

func TestPromoteGodfather(t *testing.T) {
	t.Parallel()
	gf := nightPlayer("gf", RoleGodfather)
	gf.Alive = false
	soldier := nightPlayer("m1", RoleMafia)
	players := []*Player{gf, soldier, nightPlayer("v1", RoleVillager)}

	promoted := PromoteGodfather(players)
	if promoted != soldier {
		t.Fatalf("promoted = %v, want the surviving mafioso", promoted)
	}
	if soldier.Role != RoleGodfather {
		t.Errorf("soldier's role = %s, want Godfather", soldier.Role)
	}

	if again := PromoteGodfather(players); again != nil {
		t.Errorf("second promotion = %v, want nil while a godfather lives", again)
	}
}

func TestPromoteGodfatherWithoutGodfather(t *testing.T) {
	t.Parallel()
	players := []*Player{nightPlayer("m1", RoleMafia), nightPlayer("v1", RoleVillager)}
	if promoted := PromoteGodfather(players); promoted != nil {
		t.Errorf("promotion without a godfather = %v, want nil", promoted)
	}
}

package mafia

import "testing"

func TestEvaluate(t *testing.T) {
	t.Parallel()
	dead := func(p *Player) *Player {
		p.Alive = false
		return p
	}

	cases := []struct {
		name    string
		players []*Player
		want    Verdict
	}{
		{
			"one mafia no town",
			[]*Player{nightPlayer("m1", RoleMafia), dead(nightPlayer("v1", RoleVillager))},
			MafiaWin,
		},
		{
			"no mafia alive",
			[]*Player{dead(nightPlayer("m1", RoleMafia)), nightPlayer("v1", RoleVillager)},
			TownWin,
		},
		{
			"mafia outnumber",
			[]*Player{nightPlayer("m1", RoleMafia), nightPlayer("m2", RoleMafia), nightPlayer("v1", RoleVillager)},
			MafiaWin,
		},
		{
			"mafia matched",
			[]*Player{nightPlayer("m1", RoleMafia), nightPlayer("v1", RoleVillager)},
			MafiaWin,
		},
		{
			"game continues",
			[]*Player{nightPlayer("m1", RoleMafia), nightPlayer("v1", RoleVillager), nightPlayer("v2", RoleVillager)},
			VerdictNone,
		},
		{
			"neutrals do not count",
			[]*Player{nightPlayer("m1", RoleMafia), nightPlayer("sk", RoleSerialKiller), nightPlayer("v1", RoleVillager)},
			MafiaWin,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.players); got != tc.want {
				t.Errorf("Evaluate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestJesterWinsOnlyWhenLynched(t *testing.T) {
	t.Parallel()
	jester := nightPlayer("j1", RoleJester)
	jester.Alive = false
	jester.Lynched = true
	players := []*Player{jester, nightPlayer("m1", RoleMafia), nightPlayer("v1", RoleVillager), nightPlayer("v2", RoleVillager)}
	if got := Evaluate(players); got != JesterWin {
		t.Errorf("lynched jester: Evaluate = %v, want JesterWin", got)
	}

	jester.Lynched = false
	if got := Evaluate(players); got == JesterWin {
		t.Error("a jester killed at night should not win")
	}
}

package system

import "testing"

func TestAutopilotJumpsOnCadence(t *testing.T) {
	a := &Autopilot{Every: 3}
	var jumps []int
	for i := 1; i <= 9; i++ {
		in := a.Intent()
		if !in.Right || in.Left {
			t.Fatalf("tick %d: intent %+v, want right only", i, in)
		}
		if in.Jump {
			jumps = append(jumps, i)
		}
	}
	if len(jumps) != 3 || jumps[0] != 3 || jumps[1] != 6 || jumps[2] != 9 {
		t.Fatalf("jumps at %v, want [3 6 9]", jumps)
	}
}

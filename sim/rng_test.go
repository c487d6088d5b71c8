package sim

import "testing"

func drawN(src interface{ Uint64() uint64 }, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = src.Uint64()
	}
	return out
}

func TestPartitionedSource_DeterministicUnderSameKey(t *testing.T) {
	a := NewPartitionedSource(SimulationKey(42))
	b := NewPartitionedSource(SimulationKey(42))

	for _, sub := range []string{SubsystemArrival, SubsystemColdService, SubsystemWarmService} {
		got := drawN(a.ForSubsystem(sub), 50)
		want := drawN(b.ForSubsystem(sub), 50)
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("subsystem %s: draw %d differs: %d vs %d", sub, i, got[i], want[i])
			}
		}
	}
}

func TestPartitionedSource_DifferentKeysDiverge(t *testing.T) {
	a := NewPartitionedSource(SimulationKey(1)).ForSubsystem(SubsystemArrival)
	b := NewPartitionedSource(SimulationKey(2)).ForSubsystem(SubsystemArrival)

	same := 0
	for i := 0; i < 20; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 20 {
		t.Error("different keys produced identical streams")
	}
}

func TestPartitionedSource_SubsystemIsolation(t *testing.T) {
	// Draining one subsystem's stream must not perturb another's.
	undisturbed := NewPartitionedSource(SimulationKey(7))
	want := drawN(undisturbed.ForSubsystem(SubsystemWarmService), 30)

	disturbed := NewPartitionedSource(SimulationKey(7))
	drawN(disturbed.ForSubsystem(SubsystemArrival), 1000)
	drawN(disturbed.ForSubsystem(SubsystemColdService), 1000)
	got := drawN(disturbed.ForSubsystem(SubsystemWarmService), 30)

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("warm service stream perturbed at draw %d: %d vs %d", i, got[i], want[i])
		}
	}
}

func TestPartitionedSource_SubsystemStreamsDiffer(t *testing.T) {
	p := NewPartitionedSource(SimulationKey(99))
	a := drawN(p.ForSubsystem(SubsystemArrival), 20)
	b := drawN(p.ForSubsystem(SubsystemColdService), 20)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("arrival and cold service subsystems produced identical streams")
	}
}

func TestPartitionedSource_CachesSource(t *testing.T) {
	p := NewPartitionedSource(SimulationKey(5))
	first := p.ForSubsystem(SubsystemArrival)
	second := p.ForSubsystem(SubsystemArrival)
	if first != second {
		t.Error("ForSubsystem returned a fresh source for a repeated name")
	}
}

func TestPartitionedSource_Key(t *testing.T) {
	p := NewPartitionedSource(SimulationKey(123))
	if got := p.Key(); got != SimulationKey(123) {
		t.Errorf("Key() = %d, want 123", got)
	}
}

func TestNewSimulationKey_PreservesSeed(t *testing.T) {
	if k := NewSimulationKey(-17); int64(k) != -17 {
		t.Errorf("NewSimulationKey(-17) = %d, want -17", k)
	}
}

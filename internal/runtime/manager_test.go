package runtime

import (
	"testing"
	"time"

	"github.com/printshop/printsim/internal/core"
)

func fastParams() core.Parameters {
	return core.Parameters{
		NumJobs:              20,
		FixedArrival:         true,
		JobArrivalTimeUS:     1_000,
		PapersRequiredLower:  1,
		PapersRequiredUpper:  3,
		QueueCapacity:        -1,
		PrintingRate:         1_000_000,
		PrinterPaperCapacity: 1_000,
		RefillRate:           1_000_000,
		ConsumerCount:        1,
		AutoScaling:          false,
	}
}

func waitForStatus(t *testing.T, m *Manager, want core.Status, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		res := m.Status()
		if st, _ := res.Data["status"].(core.Status); st == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("status never reached %q", want)
}

func TestManagerStartRejectsWhileRunning(t *testing.T) {
	m := NewManager(fastParams(), nil)

	first := m.Start(core.Parameters{})
	if !first.Success {
		t.Fatalf("expected first start to succeed, got error: %s", first.Error)
	}

	second := m.Start(core.Parameters{})
	if second.Success {
		t.Fatal("expected second start while running to fail")
	}

	waitForStatus(t, m, core.StatusStopped, 2*time.Second)
}

func TestManagerStopWithNoRunFails(t *testing.T) {
	m := NewManager(fastParams(), nil)
	res := m.Stop()
	if res.Success {
		t.Fatal("expected Stop with no run to fail")
	}
}

func TestManagerStatusIdleBeforeAnyStart(t *testing.T) {
	m := NewManager(fastParams(), nil)
	res := m.Status()
	if !res.Success {
		t.Fatalf("expected Status to succeed, got error: %s", res.Error)
	}
	if st, _ := res.Data["status"].(core.Status); st != core.StatusIdle {
		t.Errorf("expected idle status, got %v", st)
	}
}

func TestManagerStatisticsFailsBeforeAnyStart(t *testing.T) {
	m := NewManager(fastParams(), nil)
	res := m.Statistics()
	if res.Success {
		t.Fatal("expected Statistics with no run to fail")
	}
}

func TestManagerRunCompletesAndAllowsRestart(t *testing.T) {
	m := NewManager(fastParams(), nil)

	if res := m.Start(core.Parameters{}); !res.Success {
		t.Fatalf("start failed: %s", res.Error)
	}
	waitForStatus(t, m, core.StatusStopped, 2*time.Second)

	stats := m.Statistics()
	if !stats.Success {
		t.Fatalf("statistics failed: %s", stats.Error)
	}
	report, ok := stats.Data["report"].(core.Report)
	if !ok {
		t.Fatal("expected report in statistics data")
	}
	if report.TotalJobsServed != 20 {
		t.Errorf("expected 20 jobs served, got %d", report.TotalJobsServed)
	}

	if res := m.Start(core.Parameters{}); !res.Success {
		t.Fatalf("restart after completion failed: %s", res.Error)
	}
	waitForStatus(t, m, core.StatusStopped, 2*time.Second)
}

package core

import "testing"

func TestStatsRecordArrivalSkipsFirstInterArrival(t *testing.T) {
	s := NewStats("run-1")
	s.RecordArrival(1_000_000, 0)
	s.RecordArrival(2_000_000, 1_000_000)

	if s.TotalJobsArrived != 2 {
		t.Fatalf("expected 2 arrivals, got %d", s.TotalJobsArrived)
	}
	if s.TotalInterArrivalTimeUS != 1_000_000 {
		t.Fatalf("expected inter-arrival sum 1e6, got %d", s.TotalInterArrivalTimeUS)
	}
}

func TestStatsRecordDepartureAccumulatesPerPrinter(t *testing.T) {
	s := NewStats("run-1")
	job := &Job{
		ID:                     1,
		PapersRequired:         10,
		SystemArrivalTimeUS:    0,
		QueueArrivalTimeUS:     0,
		QueueDepartureTimeUS:   1_000,
		ServiceArrivalTimeUS:   1_000,
		ServiceDepartureTimeUS: 5_000,
	}
	s.RecordDeparture(job, 0)

	if s.TotalJobsServed != 1 {
		t.Fatalf("expected 1 job served, got %d", s.TotalJobsServed)
	}
	if s.Printers[0].JobsServed != 1 {
		t.Fatalf("expected printer 0 to have served 1 job, got %d", s.Printers[0].JobsServed)
	}
	if s.Printers[0].PaperUsed != 10 {
		t.Fatalf("expected printer 0 paper used 10, got %d", s.Printers[0].PaperUsed)
	}
	if s.TotalSystemTimeUS != 5_000 {
		t.Fatalf("expected system time 5000us, got %d", s.TotalSystemTimeUS)
	}
}

func TestStatsSnapshotDropProbability(t *testing.T) {
	s := NewStats("run-1")
	s.RecordArrival(1, 0)
	s.RecordArrival(2, 1)
	s.RecordDrop()

	rep := s.Snapshot(1)
	if rep.TotalJobsDropped != 1 {
		t.Fatalf("expected 1 dropped job, got %d", rep.TotalJobsDropped)
	}
	want := 0.5
	if rep.DropProbability != want {
		t.Fatalf("expected drop probability %v, got %v", want, rep.DropProbability)
	}
}

func TestStatsSnapshotZeroJobsServedIsZeroNotNaN(t *testing.T) {
	s := NewStats("run-1")
	rep := s.Snapshot(0)
	if rep.AvgSystemTimeUS != 0 {
		t.Fatalf("expected zero avg system time with no served jobs, got %v", rep.AvgSystemTimeUS)
	}
	if rep.SystemTimeStdDevUS != 0 {
		t.Fatalf("expected zero stddev with no served jobs, got %v", rep.SystemTimeStdDevUS)
	}
}

package events

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/printshop/printsim/internal/core"
)

// Metrics is a core.Emitter backend that exports simulation counters and
// gauges to Prometheus. Register it against a prometheus.Registerer once
// per process; cmd/server registers it with the default registerer,
// which internal/api serves on /metrics via promhttp.
type Metrics struct {
	core.NoopEmitter

	jobsArrived   prometheus.Counter
	jobsServed    prometheus.Counter
	jobsDropped   prometheus.Counter
	jobsRemoved   prometheus.Counter
	refillEvents  prometheus.Counter
	scaleUps      prometheus.Counter
	scaleDowns    prometheus.Counter

	queueLength   prometheus.Gauge
	printerCount  prometheus.Gauge

	printerBusy *prometheus.GaugeVec

	serviceTime prometheus.Histogram
	queueWait   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsArrived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_jobs_arrived_total",
			Help: "Total number of jobs that arrived at the system.",
		}),
		jobsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_jobs_served_total",
			Help: "Total number of jobs served to completion.",
		}),
		jobsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_jobs_dropped_total",
			Help: "Total number of jobs dropped because the queue was full.",
		}),
		jobsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_jobs_removed_total",
			Help: "Total number of jobs removed unserved during shutdown.",
		}),
		refillEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_paper_refill_events_total",
			Help: "Total number of paper refill cycles completed.",
		}),
		scaleUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_scale_up_total",
			Help: "Total number of autoscaler scale-up decisions.",
		}),
		scaleDowns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printsim_scale_down_total",
			Help: "Total number of autoscaler scale-down decisions.",
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "printsim_queue_length",
			Help: "Current number of jobs waiting in the job queue.",
		}),
		printerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "printsim_active_printers",
			Help: "Current number of active printers in the pool.",
		}),
		printerBusy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "printsim_printer_busy",
			Help: "1 if the printer is currently serving a job, else 0.",
		}, []string{"printer_id"}),
		serviceTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "printsim_service_time_us",
			Help:    "Distribution of job service time in microseconds.",
			Buckets: prometheus.ExponentialBuckets(1000, 2, 12),
		}),
		queueWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "printsim_queue_wait_us",
			Help:    "Distribution of job queue wait time in microseconds.",
			Buckets: prometheus.ExponentialBuckets(1000, 2, 12),
		}),
	}

	reg.MustRegister(
		m.jobsArrived, m.jobsServed, m.jobsDropped, m.jobsRemoved,
		m.refillEvents, m.scaleUps, m.scaleDowns,
		m.queueLength, m.printerCount, m.printerBusy,
		m.serviceTime, m.queueWait,
	)
	return m
}

func (m *Metrics) SystemArrival(core.Job, int64, core.Report) {
	m.jobsArrived.Inc()
}

func (m *Metrics) DroppedJob(core.Job, int64, core.Report) {
	m.jobsDropped.Inc()
}

func (m *Metrics) RemovedJob(core.Job) {
	m.jobsRemoved.Inc()
}

func (m *Metrics) QueueArrival(_ core.Job, _ core.Report, queueLength int, _ int64) {
	m.queueLength.Set(float64(queueLength))
}

func (m *Metrics) QueueDeparture(j core.Job, _ core.Report, queueLength int, _ int64) {
	m.queueLength.Set(float64(queueLength))
	m.queueWait.Observe(float64(j.QueueDepartureTimeUS - j.QueueArrivalTimeUS))
}

func (m *Metrics) PrinterBusy(printerID int, _ int) {
	m.printerBusy.WithLabelValues(strconv.Itoa(printerID)).Set(1)
}

func (m *Metrics) PrinterIdle(printerID int) {
	m.printerBusy.WithLabelValues(strconv.Itoa(printerID)).Set(0)
}

func (m *Metrics) SystemDeparture(j core.Job, _ int, _ core.Report) {
	m.jobsServed.Inc()
	m.serviceTime.Observe(float64(j.ServiceDepartureTimeUS - j.ServiceArrivalTimeUS))
}

func (m *Metrics) PaperRefillEnd(int, int64, int64) {
	m.refillEvents.Inc()
}

func (m *Metrics) ScaleUp(newPrinterCount int, _ int, _ int64) {
	m.scaleUps.Inc()
	m.printerCount.Set(float64(newPrinterCount))
}

func (m *Metrics) ScaleDown(newPrinterCount int, _ int, _ int64) {
	m.scaleDowns.Inc()
	m.printerCount.Set(float64(newPrinterCount))
}

func (m *Metrics) SimulationStart(r core.Report) {
	m.printerCount.Set(float64(len(r.Printers)))
}

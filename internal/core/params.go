package core

// Parameters is the simulation's only configuration input. It is
// immutable once a Simulation has started; internal/config is
// responsible for layering flags, environment variables, and defaults
// into a value of this type before Start is called.
type Parameters struct {
	NumJobs int `mapstructure:"num_jobs" json:"num_jobs"`

	FixedArrival     bool  `mapstructure:"fixed_arrival" json:"fixed_arrival"`
	JobArrivalTimeUS int64 `mapstructure:"job_arrival_time_us" json:"job_arrival_time_us"`
	MinArrivalTimeMS int64 `mapstructure:"min_arrival_time_ms" json:"min_arrival_time_ms"`
	MaxArrivalTimeMS int64 `mapstructure:"max_arrival_time_ms" json:"max_arrival_time_ms"`

	PapersRequiredLower int `mapstructure:"papers_required_lower" json:"papers_required_lower"`
	PapersRequiredUpper int `mapstructure:"papers_required_upper" json:"papers_required_upper"`

	// QueueCapacity < 0 means unlimited.
	QueueCapacity int `mapstructure:"queue_capacity" json:"queue_capacity"`

	PrintingRate         float64 `mapstructure:"printing_rate" json:"printing_rate"`
	PrinterPaperCapacity int     `mapstructure:"printer_paper_capacity" json:"printer_paper_capacity"`
	RefillRate           float64 `mapstructure:"refill_rate" json:"refill_rate"`

	ConsumerCount int  `mapstructure:"consumer_count" json:"consumer_count"`
	AutoScaling   bool `mapstructure:"auto_scaling" json:"auto_scaling"`
}

// Validate checks Parameters against the fixed ranges spec.md §6
// requires, auto-swapping an inverted papers-required bound pair rather
// than rejecting it. It is the only place ConfigError originates.
func (p *Parameters) Validate() error {
	if p.NumJobs < 0 {
		return &ConfigError{Field: "num_jobs", Msg: "must be >= 0"}
	}
	if p.PapersRequiredLower > p.PapersRequiredUpper {
		p.PapersRequiredLower, p.PapersRequiredUpper = p.PapersRequiredUpper, p.PapersRequiredLower
	}
	if p.PapersRequiredLower <= 0 {
		return &ConfigError{Field: "papers_required_lower", Msg: "must be > 0"}
	}
	if p.FixedArrival && p.JobArrivalTimeUS <= 0 {
		return &ConfigError{Field: "job_arrival_time_us", Msg: "must be > 0 when fixed_arrival is set"}
	}
	if !p.FixedArrival {
		if p.MinArrivalTimeMS > p.MaxArrivalTimeMS {
			p.MinArrivalTimeMS, p.MaxArrivalTimeMS = p.MaxArrivalTimeMS, p.MinArrivalTimeMS
		}
		if p.MinArrivalTimeMS < 0 {
			return &ConfigError{Field: "min_arrival_time_ms", Msg: "must be >= 0"}
		}
	}
	if p.PrintingRate <= 0 {
		return &ConfigError{Field: "printing_rate", Msg: "must be > 0"}
	}
	if p.RefillRate <= 0 {
		return &ConfigError{Field: "refill_rate", Msg: "must be > 0"}
	}
	if p.PrinterPaperCapacity <= 0 {
		return &ConfigError{Field: "printer_paper_capacity", Msg: "must be > 0"}
	}
	if p.PapersRequiredUpper > p.PrinterPaperCapacity {
		return &ConfigError{Field: "papers_required_upper", Msg: "must not exceed printer_paper_capacity, or a job could never be served"}
	}
	if p.ConsumerCount < 1 {
		return &ConfigError{Field: "consumer_count", Msg: "must be >= 1"}
	}
	if p.ConsumerCount > MaxPrinters {
		return &ConfigError{Field: "consumer_count", Msg: "exceeds max printer pool capacity"}
	}
	return nil
}

// Override applies the non-zero fields of o onto p, for the partial
// override a "start" command may carry (spec.md §6).
func (p *Parameters) Override(o Parameters) {
	if o.NumJobs != 0 {
		p.NumJobs = o.NumJobs
	}
	if o.JobArrivalTimeUS != 0 {
		p.JobArrivalTimeUS = o.JobArrivalTimeUS
	}
	if o.MinArrivalTimeMS != 0 {
		p.MinArrivalTimeMS = o.MinArrivalTimeMS
	}
	if o.MaxArrivalTimeMS != 0 {
		p.MaxArrivalTimeMS = o.MaxArrivalTimeMS
	}
	if o.PapersRequiredLower != 0 {
		p.PapersRequiredLower = o.PapersRequiredLower
	}
	if o.PapersRequiredUpper != 0 {
		p.PapersRequiredUpper = o.PapersRequiredUpper
	}
	if o.QueueCapacity != 0 {
		p.QueueCapacity = o.QueueCapacity
	}
	if o.PrintingRate != 0 {
		p.PrintingRate = o.PrintingRate
	}
	if o.PrinterPaperCapacity != 0 {
		p.PrinterPaperCapacity = o.PrinterPaperCapacity
	}
	if o.RefillRate != 0 {
		p.RefillRate = o.RefillRate
	}
	if o.ConsumerCount != 0 {
		p.ConsumerCount = o.ConsumerCount
	}
	// FixedArrival and AutoScaling are booleans carried as explicit
	// fields on the override struct; callers that want to flip them to
	// false must set them via the full Parameters, not the partial path.
	if o.FixedArrival {
		p.FixedArrival = true
	}
	if o.AutoScaling {
		p.AutoScaling = true
	}
}

package suggest

// Options carries every rule threshold, all configurable and defaulted
// per the rule table. A nil EnabledRules means every registered rule
// runs; a non-nil set restricts evaluation to the named types.
type Options struct {
	PCHMinIncluders   int
	PCHMinMs          float64
	SlowTUMs          float64
	FwdMinIncluders   int
	HeavyTmplCount    int
	HeavyTmplMs       float64
	UnityMinFiles     int
	UnityMeanMs       float64
	PimplMinIncluders int
	PimplMinMs        float64
	EnabledRules      map[SuggestionType]bool
}

// DefaultOptions returns the rule table's documented defaults with every
// rule enabled.
func DefaultOptions() Options {
	return Options{
		PCHMinIncluders:   10,
		PCHMinMs:          500,
		SlowTUMs:          5000,
		FwdMinIncluders:   5,
		HeavyTmplCount:    50,
		HeavyTmplMs:       1000,
		UnityMinFiles:     20,
		UnityMeanMs:       500,
		PimplMinIncluders: 10,
		PimplMinMs:        300,
		EnabledRules:      nil,
	}
}

// enabled reports whether t should run, given opts.EnabledRules.
func (o Options) enabled(t SuggestionType) bool {
	if o.EnabledRules == nil {
		return true
	}

	return o.EnabledRules[t]
}

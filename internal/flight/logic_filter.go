package flight

import "strings"

// FilterOptions are the client-side refinements applied after the base query.
type FilterOptions struct {
	MaxPrice     *int64
	Airlines     []string
	Destinations []string
	Stops        StopsFilter
	Passengers   int
}

// filterContext holds parsed data so we don't re-parse inside the loop
type filterContext struct {
	opts         FilterOptions
	airlines     map[string]struct{}
	destinations map[string]struct{}
}

func newFilterContext(opts FilterOptions) *filterContext {
	return &filterContext{
		opts:         opts,
		airlines:     foldSet(opts.Airlines),
		destinations: foldSet(opts.Destinations),
	}
}

func foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[strings.ToLower(v)] = struct{}{}
		}
	}
	return set
}

func applyFilters(flights []Flight, opts FilterOptions) []Flight {
	fc := newFilterContext(opts)

	// Pre-allocate assuming worst case (no flights filtered) to avoid resizing
	filtered := make([]Flight, 0, len(flights))

	for _, f := range flights {
		if fc.matches(f) {
			filtered = append(filtered, f)
		}
	}

	return filtered
}

// matches returns true only if ALL active filters pass
func (fc *filterContext) matches(f Flight) bool {
	if f.Status != StatusScheduled {
		return false
	}

	if f.AvailableSeats < fc.opts.Passengers {
		return false
	}

	if fc.opts.MaxPrice != nil && f.Price > *fc.opts.MaxPrice {
		return false
	}

	switch fc.opts.Stops {
	case StopsNonstop:
		if f.Stops != 0 {
			return false
		}
	case StopsOneStop:
		if f.Stops != 1 {
			return false
		}
	}

	if len(fc.destinations) > 0 {
		if _, ok := fc.destinations[strings.ToLower(f.Destination)]; !ok {
			return false
		}
	}

	if len(fc.airlines) > 0 {
		if _, ok := fc.airlines[strings.ToLower(f.CompanyName)]; !ok {
			return false
		}
	}

	return true
}

package flight

import (
	"airbook/pkg/logger"
	"sort"
)

func (s *Service) applySorting(flights []Flight, by SortKey) []Flight {
	if len(flights) <= 1 || by == SortNone {
		return flights
	}

	sorted := make([]Flight, len(flights))
	copy(sorted, flights)

	switch by {
	case SortPrice:
		sortByPrice(sorted)
	case SortDuration:
		sortByDuration(sorted)
	case SortDeparture:
		sortByDepartureTime(sorted)
	default:
		s.logger.Warn("invalid_sort_criteria", logger.Field{Key: "sort_by", Value: string(by)})
	}

	return sorted
}

// Using Sort Stable to prevent UI jumping when values are equal
func sortByPrice(flights []Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price < flights[j].Price
	})
}

func sortByDuration(flights []Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].DurationMinutes < flights[j].DurationMinutes
	})
}

func sortByDepartureTime(flights []Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})
}

package cache

import (
	"sort"
	"strings"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

// viewState is a snapshot of the filter and sort settings taken under the
// cache lock, so the view function itself stays pure.
type viewState struct {
	showHidden bool
	filterText string
	sortMode   types.SortMode
}

// applyFiltersAndSort derives a view from raw cached entries: hidden
// entries are dropped when hidden visibility is off, then entries whose
// name does not contain the filter text (case-insensitive) are dropped,
// then the remainder is ordered by the sort mode. The input slice is
// never mutated; every call re-derives the view from raw data.
func applyFiltersAndSort(entries []types.ScanEntry, vs viewState) []types.ScanEntry {
	result := make([]types.ScanEntry, 0, len(entries))

	filter := strings.ToLower(vs.filterText)
	for _, e := range entries {
		if !vs.showHidden && e.Hidden {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(e.Name), filter) {
			continue
		}
		result = append(result, e)
	}

	switch vs.sortMode {
	case types.SortBySize:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Size > result[j].Size
		})
	case types.SortByName:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	case types.SortByDate:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].ModTime > result[j].ModTime
		})
	}

	return result
}

package domain

// Format selects how search results are serialized.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a path segment to a Format. Unrecognized values fall back to JSON.
func ParseFormat(s string) Format {
	if Format(s) == FormatCSV {
		return FormatCSV
	}
	return FormatJSON
}

// SearchResultsFilename is the download name for CSV search results.
const SearchResultsFilename = "search_results.csv"

// SearchPresets are the named column allowlists used by advanced search.
var SearchPresets = map[string][]string{
	"ofs":        {"ClassNumber", "Room1", "Days1", "Enrollment", "MeetingDates1", "Type"},
	"enrollment": {"ClassNumber", "Days1", "Enrollment", "EnrollmentLimit", "Status", "Title"},
}

// SearchRequest is the input to a dataset search. A nil Columns searches and
// returns every column.
type SearchRequest struct {
	Query   string
	Columns []string
	Format  Format
	Preset  string // name of the preset Columns came from, if any
}

// PresetSearch builds a request restricted to the named preset's columns.
func PresetSearch(preset, query string, format Format) (SearchRequest, error) {
	cols, ok := SearchPresets[preset]
	if !ok {
		return SearchRequest{}, ErrValidation("unknown search preset %q", preset)
	}
	return SearchRequest{Query: query, Columns: cols, Format: format, Preset: preset}, nil
}

// PresetNames lists the known presets in a stable order.
func PresetNames() []string {
	return []string{"enrollment", "ofs"}
}

// SearchResult holds the matching rows, already projected when the request
// carried a column allowlist.
type SearchResult struct {
	Matches *Dataset
	Format  Format
}

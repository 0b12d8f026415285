package domain

import "strings"

const (
	ChannelOnline  = "online"
	ChannelInstore = "instore"

	TypeStudentDiscount = "student-discount"
	TypeFreebie         = "freebie"
	TypeGeneralSale     = "general-sale"

	StatusNewIn      = "NEW_IN"
	StatusEndingSoon = "ENDING_SOON"

	// CategoryAll is the UI's "no category" choice.
	CategoryAll = "All"
)

type Gift struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Terms        string `json:"terms"`
	BrandTitle   string `json:"brandTitle"`
	BrandLogoURL string `json:"brandLogoUrl"`
	ImageURL     string `json:"imageUrl"`
	Type         string `json:"type"`
	Channel      string `json:"channel"`
	Status       string `json:"status"`
}

// Filters narrows a gift listing. An empty slice places no restriction
// on that dimension.
type Filters struct {
	Channels    []string
	Types       []string
	BrandTitles []string
	Category    string
}

// HasCategory reports whether the category constraint applies.
func (f Filters) HasCategory() bool {
	return f.Category != "" && f.Category != CategoryAll
}

// RawFilters are the comma-separated values as they arrive in a query string.
type RawFilters struct {
	Channels    string
	Types       string
	BrandTitles string
	Category    string
}

// SerializeFilters splits every comma-separated dimension into a set.
// Blank entries are dropped, so "" and "," both mean no restriction.
func SerializeFilters(raw RawFilters) Filters {
	return Filters{
		Channels:    splitCSV(raw.Channels),
		Types:       splitCSV(raw.Types),
		BrandTitles: splitCSV(raw.BrandTitles),
		Category:    strings.TrimSpace(raw.Category),
	}
}

func splitCSV(s string) []string {
	out := []string{}
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type Sort string

const (
	SortNewIn      Sort = StatusNewIn
	SortEndingSoon Sort = StatusEndingSoon
)

// ParseSort maps the query value to a Sort. Unknown or empty values fall
// back to NEW_IN.
func ParseSort(s string) Sort {
	if Sort(s) == SortEndingSoon {
		return SortEndingSoon
	}
	return SortNewIn
}

type GiftPage struct {
	Gifts      []Gift `json:"gifts"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
}

package models

import "fmt"

// SearchMode selects which backend search runs and how its results are shaped.
type SearchMode string

const (
	SearchWeb    SearchMode = "web"
	SearchPerson SearchMode = "person"
)

// ParseSearchMode validates a mode name.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case SearchWeb, SearchPerson:
		return SearchMode(s), nil
	default:
		return "", fmt.Errorf("unknown search mode %q (want web or person)", s)
	}
}

// SearchResults is the result of one search. It is a closed sum type: the
// only implementations are WebResults and PersonResults, and Mode always
// names the search that produced the value.
type SearchResults interface {
	Mode() SearchMode
	// Empty reports whether the result has nothing to show.
	Empty() bool
	sealed()
}

// WebHit is a single web search hit.
type WebHit struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Body  string `json:"body"`
}

// WebResults is an ordered list of web hits.
type WebResults struct {
	Hits []WebHit
}

func (WebResults) Mode() SearchMode { return SearchWeb }
func (r WebResults) Empty() bool    { return len(r.Hits) == 0 }
func (WebResults) sealed()          {}

// SocialProfile links to a profile found for a person.
type SocialProfile struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// ProfessionalInfo is a snippet describing a person's work.
type ProfessionalInfo struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Person is the record returned by a person search.
type Person struct {
	Name             string
	SocialProfiles   []SocialProfile
	ProfessionalInfo []ProfessionalInfo
}

// PersonResults holds the person found, or nil when nothing was found.
type PersonResults struct {
	Person *Person
}

func (PersonResults) Mode() SearchMode { return SearchPerson }
func (r PersonResults) Empty() bool    { return r.Person == nil }
func (PersonResults) sealed()          {}

// EmptyResults returns the empty result variant for mode.
func EmptyResults(mode SearchMode) SearchResults {
	if mode == SearchPerson {
		return PersonResults{}
	}
	return WebResults{}
}

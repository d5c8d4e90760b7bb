package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/raphaelgruber/botdash/internal/models"
)

// Display is what the search view should show.
type Display int

const (
	NotSearched Display = iota
	Loading
	NoResults
	HasResults
)

func (d Display) String() string {
	switch d {
	case Loading:
		return "loading"
	case NoResults:
		return "no_results"
	case HasResults:
		return "has_results"
	default:
		return "not_searched"
	}
}

// SearchState is a copy of the SearchDispatcher state. When Results is
// non-nil, Results.Mode() equals Mode.
type SearchState struct {
	Mode     models.SearchMode
	Query    string
	Loading  bool
	Searched bool
	Results  models.SearchResults

	// LastErr is the failure behind the last empty result, if any. It does
	// not affect Display.
	LastErr error
}

// Texts shown when a completed search found nothing.
const (
	MsgNoResults    = "No results found."
	MsgNoPersonInfo = "No information found for this person."
)

// NoResultsText returns the empty-results text for mode.
func NoResultsText(mode models.SearchMode) string {
	if mode == models.SearchPerson {
		return MsgNoPersonInfo
	}
	return MsgNoResults
}

// Display derives the view state.
func (s SearchState) Display() Display {
	switch {
	case s.Loading:
		return Loading
	case !s.Searched:
		return NotSearched
	case s.Results == nil || s.Results.Empty():
		return NoResults
	default:
		return HasResults
	}
}

// SearchDispatcher routes queries to web or person search and keeps the
// normalized results of the last one.
type SearchDispatcher struct {
	api      SearchAPI
	settings settings

	mu    sync.Mutex
	state SearchState
}

// NewSearchDispatcher creates a dispatcher starting in web mode.
func NewSearchDispatcher(api SearchAPI, opts ...Option) *SearchDispatcher {
	return &SearchDispatcher{
		api:      api,
		settings: newSettings(opts),
		state:    SearchState{Mode: models.SearchWeb},
	}
}

// SetMode switches the search mode. Changing mode discards previous results.
func (d *SearchDispatcher) SetMode(mode models.SearchMode) error {
	if _, err := models.ParseSearchMode(string(mode)); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	d.mu.Lock()
	d.setModeLocked(mode)
	d.mu.Unlock()
	return nil
}

func (d *SearchDispatcher) setModeLocked(mode models.SearchMode) {
	if d.state.Mode == mode {
		return
	}
	d.state.Mode = mode
	d.state.Results = nil
	d.state.Searched = false
	d.state.LastErr = nil
}

// Search runs text in mode and returns its results.
//
// Blank text returns ErrEmptyQuery and leaves the state untouched. A search
// submitted while another is loading returns ErrInFlight. A failed request
// leaves the empty result for mode in the state, records the cause in
// LastErr and returns it.
func (d *SearchDispatcher) Search(ctx context.Context, mode models.SearchMode, text string) (models.SearchResults, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if _, err := models.ParseSearchMode(string(mode)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	d.mu.Lock()
	if d.state.Loading {
		d.mu.Unlock()
		return nil, ErrInFlight
	}
	d.setModeLocked(mode)
	d.state.Query = text
	d.state.Loading = true
	d.state.Results = nil
	d.state.LastErr = nil
	d.mu.Unlock()

	results, err := d.dispatch(ctx, mode, text)
	if err != nil {
		d.settings.logger.Warn("search failed", "mode", mode, "error", err)
		results = models.EmptyResults(mode)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Loading = false
	if d.state.Mode != mode {
		// Mode changed while loading; these results belong to no view.
		return results, err
	}
	d.state.Searched = true
	d.state.Results = results
	d.state.LastErr = err
	return results, err
}

func (d *SearchDispatcher) dispatch(ctx context.Context, mode models.SearchMode, text string) (models.SearchResults, error) {
	switch mode {
	case models.SearchPerson:
		resp, err := d.api.SearchPerson(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("person search: %w", err)
		}
		if resp.Name == nil || strings.TrimSpace(*resp.Name) == "" {
			return models.PersonResults{}, nil
		}
		return models.PersonResults{Person: &models.Person{
			Name:             *resp.Name,
			SocialProfiles:   resp.Profiles(),
			ProfessionalInfo: resp.Professional(),
		}}, nil
	default:
		resp, err := d.api.SearchWeb(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("web search: %w", err)
		}
		return models.WebResults{Hits: resp.Results}, nil
	}
}

// State returns a copy of the current state.
func (d *SearchDispatcher) State() SearchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

package session

import "log"

// State is where a user is in the search to location-page flow. The
// concrete states are NoSession, PendingSearch and ResolvedLocation.
type State interface {
	state()
}

// NoSession means nothing usable is stored.
type NoSession struct{}

// PendingSearch means search terms were saved but there is no usable
// location data for them.
type PendingSearch struct {
	Search SavedSearch
}

// ResolvedLocation means a search produced location data that can render a
// location page.
type ResolvedLocation struct {
	Data   *LocationData
	Search *SavedSearch
}

func (NoSession) state()        {}
func (PendingSearch) state()    {}
func (ResolvedLocation) state() {}

// Classify reads the store and returns the current State.
func Classify(store Store) State {
	search, err := LoadSavedSearch(store)
	if err != nil {
		log.Printf("WARN: session: %v", err)
	}
	data, err := LoadLocationData(store)
	if err != nil {
		log.Printf("WARN: session: %v", err)
	}
	return classify(data, search)
}

func classify(data *LocationData, search *SavedSearch) State {
	switch {
	case data.Valid():
		return ResolvedLocation{Data: data, Search: search}
	case search != nil:
		return PendingSearch{Search: *search}
	default:
		return NoSession{}
	}
}

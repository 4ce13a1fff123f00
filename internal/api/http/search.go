package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/content"
	"github.com/aqie/air-quality-forecast/internal/location"
	"github.com/aqie/air-quality-forecast/internal/postcode"
	"github.com/aqie/air-quality-forecast/internal/session"
	"github.com/aqie/air-quality-forecast/internal/upstream"
	"github.com/aqie/air-quality-forecast/internal/view"
)

// ErrNoResults is logged when a search matched nothing.
var ErrNoResults = errors.New("no matching locations")

// searchForm is the posted location search.
type searchForm struct {
	LocationType string `form:"locationType" validate:"required,oneof=uk-location ni-location"`
	EngScoWal    string `form:"engScoWal" validate:"max=100"`
	NI           string `form:"ni" validate:"max=100"`
}

func (f searchForm) userLocation() string {
	if location.Type(f.LocationType) == location.NILocation {
		return strings.TrimSpace(f.NI)
	}
	return strings.TrimSpace(f.EngScoWal)
}

// formErrors translates validation failures into messages from bundle.
func (f searchForm) formErrors(bundle *content.Bundle) []view.FormError {
	var out []view.FormError
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []view.FormError{{Field: "locationType", Message: bundle.Errors["noLocationType"]}}
		}
		for _, fe := range verrs {
			switch fe.Field() {
			case "LocationType":
				out = append(out, view.FormError{Field: "locationType", Message: bundle.Errors["noLocationType"]})
			case "EngScoWal":
				out = append(out, view.FormError{Field: "engScoWal", Message: bundle.Errors["tooLong"]})
			case "NI":
				out = append(out, view.FormError{Field: "ni", Message: bundle.Errors["tooLong"]})
			}
		}
	}
	if len(out) > 0 {
		return out
	}

	if f.userLocation() == "" {
		if location.Type(f.LocationType) == location.NILocation {
			return []view.FormError{{Field: "ni", Message: bundle.Errors["emptyNILocation"]}}
		}
		return []view.FormError{{Field: "engScoWal", Message: bundle.Errors["emptyUKLocation"]}}
	}
	return nil
}

func (h *handler) submitSearch(rs *routeSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form searchForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid search form")
		}

		store := sessionFrom(c)
		bundle := h.deps.Bundles.For(rs.lang)
		if errs := form.formErrors(bundle); len(errs) > 0 {
			return c.Render(view.Search, view.SearchPage{
				Common:       view.NewCommon(bundle, "search", c.Path(), "", true),
				FormAction:   rs.search,
				LocationType: form.LocationType,
				UKLocation:   form.EngScoWal,
				NILocation:   form.NI,
				Errors:       errs,
			})
		}

		h.deps.Manager.Initialize(store, rs.lang)
		store.Set(session.KeyLocationType, form.LocationType)
		store.Set(session.KeyLocationNameOrPostcode, form.userLocation())
		session.SaveStatus(store, session.Status{Status: session.StatusProcessing})
		return c.Redirect(rs.location)
	}
}

// searchLocation resolves the pending search, either from the session or
// from a bookmarked searchTerms query.
func (h *handler) searchLocation(rs *routeSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if done, err := switchLanguage(c, rs, func(o *routeSet) string { return o.location }); done {
			return err
		}
		store := sessionFrom(c)

		var search *session.SavedSearch
		locType := location.Type(session.GetString(store, session.KeyLocationType))
		userLocation := session.GetString(store, session.KeyLocationNameOrPostcode)

		if terms := strings.TrimSpace(c.Query("searchTerms")); terms != "" {
			search = &session.SavedSearch{
				SearchTerms:      terms,
				SecondSearchTerm: strings.TrimSpace(c.Query("secondSearchTerm")),
				LocationType:     location.Type(c.Query("searchTermsLocationType")),
			}
			if !search.LocationType.Valid() {
				search.LocationType = location.UKLocation
			}
			if err := session.SaveSearch(store, *search); err != nil {
				return err
			}
			locType, userLocation = search.LocationType, terms
			store.Set(session.KeyLocationType, string(locType))
			store.Set(session.KeyLocationNameOrPostcode, userLocation)
		} else if s, err := session.LoadSavedSearch(store); err == nil {
			search = s
		}

		if userLocation == "" || !locType.Valid() {
			log.Printf("INFO: no search terms, redirecting to %s", rs.search)
			return c.Redirect(rs.search)
		}
		return h.resolve(c, rs, store, locType, userLocation, search)
	}
}

func (h *handler) resolve(c *fiber.Ctx, rs *routeSet, store session.Store, locType location.Type, userLocation string, search *session.SavedSearch) error {
	ctx := c.UserContext()
	bundle := h.deps.Bundles.For(rs.lang)
	session.SaveStatus(store, session.Status{Status: session.StatusProcessing})

	var searchTerms, secondSearchTerm string
	if search != nil {
		searchTerms, secondSearchTerm = search.SearchTerms, search.SecondSearchTerm
	}

	candidates, err := h.lookup(ctx, store, locType, userLocation)
	if err != nil && !errors.Is(err, upstream.ErrWrongPostcode) {
		log.Printf("WARN: location lookup for %q failed: %v", userLocation, err)
	}
	matches := location.ProcessMatches(candidates, userLocation, searchTerms, secondSearchTerm)
	outcome := location.Decide(matches, userLocation)

	if outcome == location.NotFound {
		log.Printf("INFO: %q: %v", userLocation, ErrNoResults)
		store.Delete(session.KeyLocationData)
		session.SaveStatus(store, session.Status{Status: session.StatusFailed, RedirectTo: rs.search})
		return c.Render(view.NotFound, view.NotFoundPage{
			Common:       view.NewCommon(bundle, "notFound", c.Path(), "", true, "location", userLocation),
			UserLocation: userLocation,
			SearchPath:   rs.search,
		})
	}

	forecasts, err := h.deps.Forecasts.Fetch(ctx)
	if err != nil {
		log.Printf("WARN: forecasts unavailable: %v", err)
	}
	if forecasts == nil {
		forecasts = []airquality.ForecastLocation{}
	}
	summary, err := h.deps.Summary.Fetch(ctx)
	if err != nil {
		log.Printf("WARN: daily summary unavailable: %v", err)
		summary = nil
	}

	now := h.deps.Now()
	englishDate, welshDate := view.Dates(h.deps.Bundles, now)
	showSummaryDate, issueTime := airquality.SummaryTiming(summary, now)
	data := &session.LocationData{
		Results:         matches,
		GetForecasts:    forecasts,
		DailySummary:    summary,
		EnglishDate:     englishDate,
		WelshDate:       welshDate,
		LocationType:    locType,
		ShowSummaryDate: showSummaryDate,
		IssueTime:       issueTime,
		UserLocation:    userLocation,
		SearchTerms:     searchTerms,
	}
	if err := session.SaveLocationData(store, data); err != nil {
		session.SaveStatus(store, session.Status{Status: session.StatusFailed, RedirectTo: rs.search})
		return fmt.Errorf("save location data: %w", err)
	}

	if outcome == location.Single {
		target := rs.locationByID(matches[0].RouteID())
		session.SaveStatus(store, session.Status{Status: session.StatusComplete, RedirectTo: target})
		return c.Redirect(target)
	}

	session.SaveStatus(store, session.Status{Status: session.StatusComplete, RedirectTo: rs.location})
	common := view.NewCommon(bundle, "multipleLocations", c.Path(), "", true, "location", userLocation)
	return c.Render(view.MultipleMatches, view.NewMultipleMatchesPage(common, userLocation, rs.search, rs.location, matches))
}

// lookup queries the gazetteer for the location type. Input that can not
// be a valid lookup is guarded so no request is made.
func (h *handler) lookup(ctx context.Context, store session.Store, locType location.Type, userLocation string) ([]location.Candidate, error) {
	if locType == location.NILocation {
		if h.deps.NI == nil {
			return nil, errors.New("ni places not configured")
		}
		shouldCall := postcode.IsFullNIPostcode(userLocation)
		token := ""
		if shouldCall {
			token = h.niToken(ctx, store)
		}
		return h.deps.NI.Search(ctx, userLocation, token, shouldCall)
	}

	if h.deps.UK == nil {
		return nil, errors.New("os names not configured")
	}
	query := strings.TrimSpace(userLocation)
	kind := postcode.Classify(query)
	if kind == postcode.KindFullUK || kind == postcode.KindFullNI {
		query = postcode.FormatUKPostcode(query)
	}
	return h.deps.UK.Search(ctx, query, kind != postcode.KindInvalid)
}

// niToken returns the process-wide token, falling back to the copy saved in
// the session.
func (h *handler) niToken(ctx context.Context, store session.Store) string {
	if h.deps.Tokens != nil {
		token, err := h.deps.Tokens.Token(ctx)
		if err == nil {
			store.Set(session.KeySavedAccessToken, token)
			return token
		}
		log.Printf("WARN: ni token unavailable, trying session copy: %v", err)
	}
	return session.GetString(store, session.KeySavedAccessToken)
}

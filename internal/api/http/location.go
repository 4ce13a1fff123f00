package httpapi

import (
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/aqie/air-quality-forecast/internal/location"
	"github.com/aqie/air-quality-forecast/internal/session"
	"github.com/aqie/air-quality-forecast/internal/view"
)

// locationByID renders a location previously resolved into the session.
func (h *handler) locationByID(rs *routeSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("id")
		if done, err := switchLanguage(c, rs, func(o *routeSet) string { return o.locationByID(raw) }); done {
			return err
		}
		// Route ids keep non-ASCII letters such as "ô", which arrive escaped.
		id, err := url.PathUnescape(raw)
		if err != nil {
			id = raw
		}
		store := sessionFrom(c)
		bundle := h.deps.Bundles.For(rs.lang)

		var data *session.LocationData
		switch st := session.Classify(store).(type) {
		case session.ResolvedLocation:
			data = st.Data
		case session.PendingSearch:
			target, _ := session.ValidateAndRedirect(store, nil, rs.location, queryValues(c))
			return c.Redirect(target)
		default:
			target, _ := session.ValidateAndRedirect(store, nil, rs.search, queryValues(c))
			return c.Redirect(target)
		}

		candidate, ok := data.Results.Find(id)
		if !ok {
			log.Printf("INFO: %s not among the stored results", id)
			return c.Render(view.NotFound, view.NotFoundPage{
				Common:       view.NewCommon(bundle, "notFound", c.Path(), "", true, "location", id),
				UserLocation: id,
				SearchPath:   rs.search,
			})
		}

		if !data.Optimized {
			if err := h.reduce(c, store, data, candidate); err != nil {
				return err
			}
		}

		if h.deps.Mocks != nil {
			overlaid := *data
			h.deps.Mocks.Apply(store, &overlaid, h.deps.Now())
			data = &overlaid
		}

		common := view.NewCommon(bundle, "location", c.Path(), "", true, "location", candidate.Title())
		return c.Render(view.Location, view.NewLocationPage(common, bundle, data, candidate, rs.search))
	}
}

// reduce keeps only the forecast point and monitoring sites nearest the
// candidate. With a single result the reduction is saved to the session;
// otherwise the user may still pick another result and the full forecast
// list is kept.
func (h *handler) reduce(c *fiber.Ctx, store session.Store, data *session.LocationData, candidate location.Candidate) error {
	point, ok := candidate.Coordinates()
	if !ok {
		log.Printf("WARN: %s has no coordinates", candidate.RouteID())
	}

	sites := data.GetMeasurements
	if sites == nil && ok && h.deps.Measurements != nil {
		fetched, err := h.deps.Measurements.Fetch(c.UserContext(), point)
		if err != nil {
			log.Printf("WARN: measurements unavailable: %v", err)
		}
		sites = fetched
	}

	var nearby location.Nearby
	if ok {
		nearby = location.Nearest(point, data.GetForecasts, sites, h.deps.RadiusKm)
	}

	if len(data.Results) == 1 {
		return h.deps.Manager.Optimize(store, data, nearby.Forecast, nearby.Sites)
	}
	data.NearestForecast = nearby.Forecast
	data.GetMeasurements = nearby.Sites
	return nil
}

package httpapi

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/content"
	"github.com/aqie/air-quality-forecast/internal/location"
	"github.com/aqie/air-quality-forecast/internal/mock"
	"github.com/aqie/air-quality-forecast/internal/session"
)

var validate = validator.New()

// ForecastSource returns every forecast point.
type ForecastSource interface {
	Fetch(ctx context.Context) ([]airquality.ForecastLocation, error)
}

// SummarySource returns the daily forecast summary.
type SummarySource interface {
	Fetch(ctx context.Context) (*airquality.DailySummary, error)
}

// MeasurementSource returns monitoring sites around a point.
type MeasurementSource interface {
	Fetch(ctx context.Context, p location.Point) ([]airquality.MonitoringSite, error)
}

// UKGazetteer searches places and postcodes in England, Scotland and Wales.
type UKGazetteer interface {
	Search(ctx context.Context, query string, shouldCallAPI bool) ([]location.Candidate, error)
}

// NIGazetteer searches Northern Ireland postcodes.
type NIGazetteer interface {
	Search(ctx context.Context, postcode, token string, shouldCallAPI bool) ([]location.Candidate, error)
}

// TokenSource hands out the NI Places access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Forecasts    ForecastSource
	Summary      SummarySource
	Measurements MeasurementSource
	UK           UKGazetteer
	NI           NIGazetteer
	Tokens       TokenSource

	Sessions SessionProvider
	Bundles  content.Bundles
	Manager  *session.Manager

	// Mocks is nil unless mocks are enabled.
	Mocks    *mock.Overlay
	RadiusKm float64
	Now      func() time.Time
}

// routeSet holds the paths of one language.
type routeSet struct {
	lang      content.Lang
	home      string
	search    string
	location  string
	pollutant string
}

func (rs *routeSet) locationByID(id string) string { return rs.location + "/" + id }

func (rs *routeSet) pollutantPath(name string) string {
	if rs.lang == content.Welsh {
		return "/llygryddion/" + name + "/cy"
	}
	return "/pollutants/" + name
}

var (
	english = &routeSet{
		lang:      content.English,
		home:      "/",
		search:    "/search-location",
		location:  "/location",
		pollutant: "/pollutants/:name",
	}
	welsh = &routeSet{
		lang:      content.Welsh,
		home:      "/cy",
		search:    "/chwilio-lleoliad/cy",
		location:  "/lleoliad",
		pollutant: "/llygryddion/:name/cy",
	}
	routeSets = map[content.Lang]*routeSet{content.English: english, content.Welsh: welsh}
)

// preservedParams survive a language switch redirect.
var preservedParams = []string{"locationId", "locationName", "searchTerms", "secondSearchTerm", "searchTermsLocationType"}

type handler struct {
	deps Deps
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Manager == nil {
		deps.Manager = session.NewManager(deps.Bundles)
	}
	h := &handler{deps: deps}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "air-quality-forecast",
		})
	})

	app.Use(h.withSession)

	for _, rs := range []*routeSet{english, welsh} {
		app.Get(rs.home, h.home(rs))
		app.Get(rs.search, h.searchPage(rs))
		app.Post(rs.search, h.submitSearch(rs))
		app.Get(rs.location, h.searchLocation(rs))
		app.Get(rs.location+"/:id", h.locationByID(rs))
		app.Get(rs.pollutant, h.pollutant(rs))
	}
	app.Get("/cookies", h.cookies)
	app.Get("/loading-status", h.loadingStatus)
}

func queryValues(c *fiber.Ctx) url.Values {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		log.Printf("WARN: ignoring malformed query %q: %v", c.Request().URI().QueryString(), err)
		return url.Values{}
	}
	return values
}

// switchLanguage redirects with 301 when the lang query parameter asks for
// the other language. English targets carry lang=en; Welsh paths imply it.
func switchLanguage(c *fiber.Ctx, rs *routeSet, path func(*routeSet) string) (bool, error) {
	want := c.Query("lang")
	if !content.Valid(want) || content.Lang(want) == rs.lang {
		return false, nil
	}
	other := routeSets[content.Lang(want)]

	q := url.Values{}
	if other.lang == content.English {
		q.Set("lang", string(content.English))
	}
	for _, key := range preservedParams {
		if v := c.Query(key); v != "" {
			q.Set(key, v)
		}
	}
	target := path(other)
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	return true, c.Redirect(target, fiber.StatusMovedPermanently)
}

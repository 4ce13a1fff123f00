package location

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/aqie/air-quality-forecast/internal/airquality"
)

// MaxNearbySites caps how many monitoring sites are kept for a location.
const MaxNearbySites = 3

// Nearby is the forecast point and monitoring sites closest to a location.
type Nearby struct {
	Forecast *airquality.ForecastLocation
	Sites    []airquality.MonitoringSite
}

func distanceKm(a Point, lat, lon float64) float64 {
	return geo.Distance(orb.Point{a.Lon, a.Lat}, orb.Point{lon, lat}) / 1000
}

// Nearest returns the forecast point closest to p and up to MaxNearbySites
// monitoring sites within radiusKm, closest first.
func Nearest(p Point, forecasts []airquality.ForecastLocation, sites []airquality.MonitoringSite, radiusKm float64) Nearby {
	var nearby Nearby

	best := math.Inf(1)
	for i := range forecasts {
		lat, lon, ok := forecasts[i].Location.LatLon()
		if !ok {
			continue
		}
		if d := distanceKm(p, lat, lon); d < best {
			best = d
			f := forecasts[i]
			nearby.Forecast = &f
		}
	}

	for _, site := range sites {
		lat, lon, ok := site.Location.LatLon()
		if !ok {
			continue
		}
		d := distanceKm(p, lat, lon)
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		site.DistanceKm = math.Round(d*10) / 10
		nearby.Sites = append(nearby.Sites, site.WithBands())
	}
	sort.SliceStable(nearby.Sites, func(i, j int) bool {
		return nearby.Sites[i].DistanceKm < nearby.Sites[j].DistanceKm
	})
	if len(nearby.Sites) > MaxNearbySites {
		nearby.Sites = nearby.Sites[:MaxNearbySites]
	}
	return nearby
}

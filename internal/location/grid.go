package location

import "math"

// Airy 1830 ellipsoid and National Grid projection constants.
const (
	airyA    = 6377563.396
	airyB    = 6356256.909
	gridF0   = 0.9996012717
	gridE0   = 400000.0
	gridN0   = -100000.0
	gridLat0 = 49 * math.Pi / 180
	gridLon0 = -2 * math.Pi / 180
)

// GridToLatLon converts British National Grid eastings and northings to
// latitude and longitude on the OSGB36 datum. The datum shift to WGS84 is
// around a hundred metres and is ignored.
func GridToLatLon(easting, northing float64) Point {
	a, b, f0 := airyA, airyB, gridF0
	e2 := 1 - (b*b)/(a*a)
	n := (a - b) / (a + b)
	n2, n3 := n*n, n*n*n

	lat := gridLat0
	m := 0.0
	for i := 0; i < 20; i++ {
		lat = (northing-gridN0-m)/(a*f0) + lat

		dLat, sLat := lat-gridLat0, lat+gridLat0
		ma := (1 + n + 1.25*n2 + 1.25*n3) * dLat
		mb := (3*n + 3*n2 + 21.0/8*n3) * math.Sin(dLat) * math.Cos(sLat)
		mc := (15.0/8*n2 + 15.0/8*n3) * math.Sin(2*dLat) * math.Cos(2*sLat)
		md := 35.0 / 24 * n3 * math.Sin(3*dLat) * math.Cos(3*sLat)
		m = b * f0 * (ma - mb + mc - md)

		if math.Abs(northing-gridN0-m) < 0.00001 {
			break
		}
	}

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	nu := a * f0 / math.Sqrt(1-e2*sinLat*sinLat)
	rho := a * f0 * (1 - e2) / math.Pow(1-e2*sinLat*sinLat, 1.5)
	eta2 := nu/rho - 1

	tanLat := math.Tan(lat)
	tan2, tan4, tan6 := tanLat*tanLat, math.Pow(tanLat, 4), math.Pow(tanLat, 6)
	secLat := 1 / cosLat
	nu3, nu5, nu7 := math.Pow(nu, 3), math.Pow(nu, 5), math.Pow(nu, 7)

	vii := tanLat / (2 * rho * nu)
	viii := tanLat / (24 * rho * nu3) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	ix := tanLat / (720 * rho * nu5) * (61 + 90*tan2 + 45*tan4)
	x := secLat / nu
	xi := secLat / (6 * nu3) * (nu/rho + 2*tan2)
	xii := secLat / (120 * nu5) * (5 + 28*tan2 + 24*tan4)
	xiia := secLat / (5040 * nu7) * (61 + 662*tan2 + 1320*tan4 + 720*tan6)

	de := easting - gridE0
	lat = lat - vii*de*de + viii*math.Pow(de, 4) - ix*math.Pow(de, 6)
	lon := gridLon0 + x*de - xi*math.Pow(de, 3) + xii*math.Pow(de, 5) - xiia*math.Pow(de, 7)

	return Point{Lat: lat * 180 / math.Pi, Lon: lon * 180 / math.Pi}
}

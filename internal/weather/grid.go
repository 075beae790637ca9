package weather

import "math"

// Lambert Conformal Conic projection parameters for the KMA village
// forecast grid (public data portal guide).
const (
	earthRadiusKm = 6371.00877
	gridSizeKm    = 5.0
	stdParallel1  = 30.0  // degrees
	stdParallel2  = 60.0  // degrees
	originLon     = 126.0 // degrees
	originLat     = 38.0  // degrees
	originX       = 43    // grid offset
	originY       = 136   // grid offset
)

// GridPoint is a cell of the KMA forecast grid.
type GridPoint struct {
	X int
	Y int
}

func lccParams() (re, sn, sf, ro float64) {
	const degrad = math.Pi / 180.0

	re = earthRadiusKm / gridSizeKm
	slat1 := stdParallel1 * degrad
	slat2 := stdParallel2 * degrad
	olat := originLat * degrad

	sn = math.Tan(math.Pi*0.25+slat2*0.5) / math.Tan(math.Pi*0.25+slat1*0.5)
	sn = math.Log(math.Cos(slat1)/math.Cos(slat2)) / math.Log(sn)
	sf = math.Tan(math.Pi*0.25 + slat1*0.5)
	sf = math.Pow(sf, sn) * math.Cos(slat1) / sn
	ro = math.Tan(math.Pi*0.25 + olat*0.5)
	ro = re * sf / math.Pow(ro, sn)
	return re, sn, sf, ro
}

// LatLonToGrid projects WGS84 coordinates onto the forecast grid.
func LatLonToGrid(lat, lon float64) GridPoint {
	const degrad = math.Pi / 180.0

	re, sn, sf, ro := lccParams()
	olon := originLon * degrad

	ra := math.Tan(math.Pi*0.25 + lat*degrad*0.5)
	ra = re * sf / math.Pow(ra, sn)
	theta := lon*degrad - olon
	if theta > math.Pi {
		theta -= 2.0 * math.Pi
	}
	if theta < -math.Pi {
		theta += 2.0 * math.Pi
	}
	theta *= sn

	return GridPoint{
		X: int(math.Floor(ra*math.Sin(theta) + originX + 0.5)),
		Y: int(math.Floor(ro - ra*math.Cos(theta) + originY + 0.5)),
	}
}

// GridToLatLon inverts the projection for a grid cell.
func GridToLatLon(p GridPoint) (lat, lon float64) {
	const raddeg = 180.0 / math.Pi
	const degrad = math.Pi / 180.0

	re, sn, sf, ro := lccParams()
	olon := originLon * degrad

	xn := float64(p.X) - originX
	yn := ro - float64(p.Y) + originY
	ra := math.Sqrt(xn*xn + yn*yn)
	if sn < 0 {
		ra = -ra
	}
	alat := math.Pow(re*sf/ra, 1.0/sn)
	alat = 2.0*math.Atan(alat) - math.Pi*0.5

	var theta float64
	switch {
	case math.Abs(xn) <= 0:
		theta = 0
	case math.Abs(yn) <= 0:
		theta = math.Pi * 0.5
		if xn < 0 {
			theta = -theta
		}
	default:
		theta = math.Atan2(xn, yn)
	}

	return alat * raddeg, (theta/sn + olon) * raddeg
}

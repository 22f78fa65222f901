package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	WGS84       = "EPSG:4326"
	WebMercator = "EPSG:3857"

	utmNorthStart = 32601
	utmSouthStart = 32701
)

const wgs84Def = "+proj=longlat +datum=WGS84 +no_defs"

// proj4 definitions of the projected systems known by EPSG code, besides the WGS84 UTM zones.
var projDefs = map[int]string{
	// Xian 1980 / 3-degree Gauss-Kruger CM 117E
	2345: "+proj=tmerc +lat_0=0 +lon_0=117 +k=1 +x_0=500000 +y_0=0 +a=6378140 +b=6356755.288157528 +units=m +no_defs",
	// ETRS89 / TM35FIN(E,N)
	3067: "+proj=tmerc +lat_0=0 +lon_0=27 +k=0.9996 +x_0=500000 +y_0=0 +ellps=GRS80 +units=m +no_defs",
	// CGCS2000 / 3-degree Gauss-Kruger CM 114E and CM 117E
	4547: "+proj=tmerc +lat_0=0 +lon_0=114 +k=1 +x_0=500000 +y_0=0 +ellps=GRS80 +units=m +no_defs",
	4548: "+proj=tmerc +lat_0=0 +lon_0=117 +k=1 +x_0=500000 +y_0=0 +ellps=GRS80 +units=m +no_defs",
}

type pointFunc func(orb.Point) (orb.Point, error)

type crs struct {
	name      string
	toWGS84   pointFunc
	fromWGS84 pointFunc
}

func identity(p orb.Point) (orb.Point, error) { return p, nil }

func fromOrb(f orb.Projection) pointFunc {
	return func(p orb.Point) (orb.Point, error) {
		return f(p), nil
	}
}

func fromProj(t proj.Transformer) pointFunc {
	return func(p orb.Point) (orb.Point, error) {
		x, y, err := t(p.X(), p.Y())
		if err != nil {
			return orb.Point{}, err
		}
		return orb.Point{x, y}, nil
	}
}

// utmDef. WGS84 UTM zone as an explicit transverse mercator definition.
func utmDef(zone int, south bool) string {
	falseNorthing := 0
	if south {
		falseNorthing = 10000000
	}
	return fmt.Sprintf("+proj=tmerc +lat_0=0 +lon_0=%d +k=0.9996 +x_0=500000 +y_0=%d +datum=WGS84 +units=m +no_defs",
		(zone-1)*6-180+3, falseNorthing)
}

// lookupDef returns the proj4 definition of name: either name itself when it already is a proj4
// string, or the definition registered for its EPSG code.
func lookupDef(name string) (string, bool) {
	if strings.HasPrefix(strings.TrimSpace(name), "+proj=") {
		return strings.TrimSpace(name), true
	}

	code := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(code, "EPSG:") {
		return "", false
	}
	epsg, err := strconv.Atoi(strings.TrimPrefix(code, "EPSG:"))
	if err != nil {
		return "", false
	}
	switch {
	case epsg >= utmNorthStart && epsg < utmNorthStart+60:
		return utmDef(epsg-utmNorthStart+1, false), true
	case epsg >= utmSouthStart && epsg < utmSouthStart+60:
		return utmDef(epsg-utmSouthStart+1, true), true
	}
	def, ok := projDefs[epsg]
	return def, ok
}

func parseCRS(name string, wgs84 *proj.SR) (crs, error) {
	code := strings.ToUpper(strings.TrimSpace(name))
	switch code {
	case WGS84, "WGS84", "CRS:84":
		return crs{name: WGS84, toWGS84: identity, fromWGS84: identity}, nil
	case WebMercator, "EPSG:900913":
		return crs{name: WebMercator, toWGS84: fromOrb(project.Mercator.ToWGS84),
			fromWGS84: fromOrb(project.WGS84.ToMercator)}, nil
	}

	def, ok := lookupDef(name)
	if !ok {
		return crs{}, fmt.Errorf("unsupported coordinate reference system %q", name)
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return crs{}, fmt.Errorf("cannot parse coordinate reference system %q: %w", name, err)
	}
	to, err := sr.NewTransform(wgs84)
	if err != nil {
		return crs{}, fmt.Errorf("coordinate reference system %q: %w", name, err)
	}
	from, err := wgs84.NewTransform(sr)
	if err != nil {
		return crs{}, fmt.Errorf("coordinate reference system %q: %w", name, err)
	}
	return crs{name: code, toWGS84: fromProj(to), fromWGS84: fromProj(from)}, nil
}

// Transformer reprojects points between two reference systems, going through WGS84.
// Systems are named by EPSG code or given as proj4 strings. Points are (x, y) = (lon, lat)
// for geographic systems.
type Transformer struct {
	from, to crs
}

func NewTransformer(from, to string) (*Transformer, error) {
	wgs84, err := proj.Parse(wgs84Def)
	if err != nil {
		return nil, err
	}
	f, err := parseCRS(from, wgs84)
	if err != nil {
		return nil, err
	}
	t, err := parseCRS(to, wgs84)
	if err != nil {
		return nil, err
	}
	return &Transformer{from: f, to: t}, nil
}

func (tr *Transformer) Forward(p orb.Point) (orb.Point, error) {
	return reproject(p, tr.from, tr.to)
}

func (tr *Transformer) Inverse(p orb.Point) (orb.Point, error) {
	return reproject(p, tr.to, tr.from)
}

func reproject(p orb.Point, from, to crs) (orb.Point, error) {
	if from.name == to.name {
		return p, nil
	}
	ll, err := from.toWGS84(p)
	if err != nil {
		return orb.Point{}, fmt.Errorf("reproject %v from %s: %w", p, from.name, err)
	}
	out, err := to.fromWGS84(ll)
	if err != nil {
		return orb.Point{}, fmt.Errorf("reproject %v to %s: %w", p, to.name, err)
	}
	return out, nil
}

func (tr *Transformer) From() string {
	return tr.from.name
}

func (tr *Transformer) To() string {
	return tr.to.name
}

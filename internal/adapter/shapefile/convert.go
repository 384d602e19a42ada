package shapefile

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
)

// toOrb converts a decoded polygonal shape. Shapefile polygons store every
// part as a ring: clockwise rings start a new polygon and counter-clockwise
// rings are holes in the polygon before them.
func toOrb(g geom.Geom) (orb.Geometry, error) {
	switch t := g.(type) {
	case geom.Polygon:
		return fromRings(t), nil
	case geom.MultiPolygon:
		var mp orb.MultiPolygon
		for _, p := range t {
			switch o := fromRings(p).(type) {
			case orb.Polygon:
				mp = append(mp, o)
			case orb.MultiPolygon:
				mp = append(mp, o...)
			}
		}
		return collapse(mp), nil
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
}

func fromRings(p geom.Polygon) orb.Geometry {
	var mp orb.MultiPolygon
	for _, path := range p {
		ring := toRing(path)
		if len(ring) < 4 {
			continue
		}
		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}
	return collapse(mp)
}

func toRing(path geom.Path) orb.Ring {
	ring := make(orb.Ring, 0, len(path)+1)
	for _, pt := range path {
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

func collapse(mp orb.MultiPolygon) orb.Geometry {
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}

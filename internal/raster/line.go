// Package raster computes the pixels a body sweeps through between two
// integer positions.
package raster

import "image"

// Octant returns the 45° sector (1..8) the segment from (xi,yi) to (xf,yf)
// lies in, counting counter-clockwise from the positive x axis with y
// growing downwards. A zero-length segment is in octant 1.
func Octant(xi, yi, xf, yf int) int {
	octant := 1
	a := xf - xi
	b := yf - yi
	if b < 0 {
		octant += 4
		a, b = -a, -b
	}
	if a < 0 {
		octant += 2
		a, b = b, -a
	}
	if a < b {
		octant++
	}
	return octant
}

// Line returns the 8-connected pixels of the segment from `from` to `to`,
// both endpoints included. The result has max(|dx|,|dy|)+1 points and
// always starts at `from`.
func Line(from, to image.Point) []image.Point {
	octant := Octant(from.X, from.Y, to.X, to.Y)
	pts := firstOctant(toFirstOctant(from, octant), toFirstOctant(to, octant))
	for i, p := range pts {
		pts[i] = fromFirstOctant(p, octant)
	}
	return pts
}

// firstOctant runs the midpoint decision loop for a segment with
// dx >= dy >= 0. Each step advances x by one and y by zero or one.
func firstOctant(pi, pf image.Point) []image.Point {
	a := pf.X - pi.X
	b := pf.Y - pi.Y

	pts := make([]image.Point, 0, a+1)
	x, y := pi.X, pi.Y

	incE := 2 * b
	d := incE - a
	incNE := d - a
	for i := 0; i < a; i++ {
		pts = append(pts, image.Pt(x, y))
		x++
		if d >= 0 {
			y++
			d += incNE
		} else {
			d += incE
		}
	}
	return append(pts, image.Pt(x, y))
}

func toFirstOctant(p image.Point, octant int) image.Point {
	switch octant {
	case 2:
		return image.Pt(p.Y, p.X)
	case 3:
		return image.Pt(p.Y, -p.X)
	case 4:
		return image.Pt(-p.X, p.Y)
	case 5:
		return image.Pt(-p.X, -p.Y)
	case 6:
		return image.Pt(-p.Y, -p.X)
	case 7:
		return image.Pt(-p.Y, p.X)
	case 8:
		return image.Pt(p.X, -p.Y)
	}
	return p
}

func fromFirstOctant(p image.Point, octant int) image.Point {
	switch octant {
	case 2:
		return image.Pt(p.Y, p.X)
	case 3:
		return image.Pt(-p.Y, p.X)
	case 4:
		return image.Pt(-p.X, p.Y)
	case 5:
		return image.Pt(-p.X, -p.Y)
	case 6:
		return image.Pt(-p.Y, -p.X)
	case 7:
		return image.Pt(p.Y, -p.X)
	case 8:
		return image.Pt(p.X, -p.Y)
	}
	return p
}

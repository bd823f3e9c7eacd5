package main

import (
	"math"
	"math/rand/v2"
)

// noise is 2D simplex noise over a seed-shuffled permutation table.
type noise struct {
	perm [512]int
}

func newNoise(seed uint64) *noise {
	n := &noise{}
	r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))

	p := r.Perm(256)
	for i := range n.perm {
		n.perm[i] = p[i&255]
	}
	return n
}

// grad returns the dot product of one of eight gradients with (x, y).
func grad(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Skew and unskew factors for two dimensions.
var (
	skew   = (math.Sqrt(3) - 1) / 2
	unskew = (3 - math.Sqrt(3)) / 6
)

// at returns noise at (x, y) in [-1, 1].
func (n *noise) at(x, y float64) float64 {
	s := (x + y) * skew
	i := math.Floor(x + s)
	j := math.Floor(y + s)
	t := (i + j) * unskew

	corners := [3][2]float64{{x - (i - t), y - (j - t)}}
	var i1, j1 int
	if corners[0][0] > corners[0][1] {
		i1 = 1
	} else {
		j1 = 1
	}
	corners[1] = [2]float64{corners[0][0] - float64(i1) + unskew, corners[0][1] - float64(j1) + unskew}
	corners[2] = [2]float64{corners[0][0] - 1 + 2*unskew, corners[0][1] - 1 + 2*unskew}

	ii, jj := int(i)&255, int(j)&255
	hashes := [3]int{
		n.perm[ii+n.perm[jj]],
		n.perm[ii+i1+n.perm[jj+j1]],
		n.perm[ii+1+n.perm[jj+1]],
	}

	var sum float64
	for k, c := range corners {
		r := 0.5 - c[0]*c[0] - c[1]*c[1]
		if r <= 0 {
			continue
		}
		r *= r
		sum += r * r * grad(hashes[k], c[0], c[1])
	}
	return 70 * sum
}

// octaves configures fractal noise.
type octaves struct {
	freq        float64
	count       int
	lacunarity  float64
	persistence float64
}

// fractal sums o.count octaves of noise, normalized to [0, 1].
func (n *noise) fractal(x, y float64, o octaves) float64 {
	var total, maxAmp float64
	amp, freq := 1.0, o.freq
	for range o.count {
		total += n.at(x*freq, y*freq) * amp
		maxAmp += amp
		freq *= o.lacunarity
		amp *= o.persistence
	}
	return (total/maxAmp + 1) / 2
}

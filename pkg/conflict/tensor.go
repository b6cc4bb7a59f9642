// Package conflict detects same-timestep proximity between two disjoint
// sets of time-stamped flight routes (C5 in the component design).
package conflict

// Sample is a single time-stamped position on a route.
type Sample struct {
	TimeSeconds int
	Lon         float64
	Lat         float64
	Alt         float64
}

// Route is an unordered collection of time-stamped samples; at most one
// sample per integer second survives into the tensor (later writes for
// the same second are dropped — see BuildTensor).
type Route []Sample

// Tensor holds the dense trajectory field for a set of routes over a
// horizon of T seconds: P[route][t] is the sampled (lon, lat, alt), and
// M[route][t] reports whether that slot was ever written. Existing
// routes occupy indices [0, ExistingCount); new routes occupy
// [ExistingCount, len(P)).
type Tensor struct {
	P             [][][3]float64
	M             [][]bool
	ExistingCount int
	Horizon       int
}

// BuildTensor lays existing and new routes into a dense P[N,T,3]/M[N,T]
// pair, N = len(existing)+len(newRoutes). A route contributes at most one
// point per integer second; for a given (route, t) the first sample with
// that TimeSeconds wins and later ones for the same second are silently
// dropped, matching the original's per-channel `filled_t` set.
func BuildTensor(existing, newRoutes []Route, horizon int) Tensor {
	routes := make([]Route, 0, len(existing)+len(newRoutes))
	routes = append(routes, existing...)
	routes = append(routes, newRoutes...)

	n := len(routes)
	p := make([][][3]float64, n)
	m := make([][]bool, n)

	for i, route := range routes {
		p[i] = make([][3]float64, horizon)
		m[i] = make([]bool, horizon)
		for _, s := range route {
			if s.TimeSeconds < 0 || s.TimeSeconds >= horizon {
				continue
			}
			if m[i][s.TimeSeconds] {
				continue
			}
			p[i][s.TimeSeconds] = [3]float64{s.Lon, s.Lat, s.Alt}
			m[i][s.TimeSeconds] = true
		}
	}

	return Tensor{P: p, M: m, ExistingCount: len(existing), Horizon: horizon}
}

package board

// PseudoRand is a xorshift64* generator; deterministic for a given seed, zero value is unusable.
type PseudoRand struct {
	s uint64
}

func NewPseudoRand() *PseudoRand {
	return &PseudoRand{s: 1}
}

func (r *PseudoRand) Seed(seed uint64) {
	if seed == 0 {
		seed = 1
	}
	r.s = seed
}

func (r *PseudoRand) Uint64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// Intn returns a value in [0, n). n must be positive.
func (r *PseudoRand) Intn(n int) int {
	return int(r.Uint64() % uint64(n))
}

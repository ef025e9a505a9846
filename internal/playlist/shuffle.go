package playlist

import "slices"

// SetShuffle enables or disables shuffled order. Enabling computes a new
// permutation; the current track, if any, leads it so the rest of the pass
// covers every other track once. Disabling resumes insertion order after the
// current track. The track order itself is never changed.
func (p *Playlist) SetShuffle(on bool) {
	if on == p.shuffle {
		return
	}
	p.shuffle = on
	if !on {
		p.perm = nil
		p.permPos = -1
		return
	}

	p.perm = p.rng.Perm(len(p.tracks))
	p.permPos = -1
	if p.current >= 0 {
		i := slices.Index(p.perm, p.current)
		p.perm[0], p.perm[i] = p.perm[i], p.perm[0]
		p.permPos = 0
	}
}

// Order returns the walk order of the current shuffle pass, or nil when
// shuffle is off.
func (p *Playlist) Order() []int {
	return slices.Clone(p.perm)
}

func (p *Playlist) nextShuffled(wrap bool) (Track, bool) {
	if p.permPos+1 >= len(p.perm) {
		if !wrap {
			return Track{}, false
		}
		p.reshuffle()
	}
	p.permPos++
	p.current = p.perm[p.permPos]
	return p.tracks[p.current], true
}

// reshuffle starts a new pass whose order differs from the one just played.
func (p *Playlist) reshuffle() {
	prev := p.perm
	for {
		p.perm = p.rng.Perm(len(p.tracks))
		if len(p.tracks) < 2 || !slices.Equal(p.perm, prev) {
			break
		}
	}
	p.permPos = -1
}

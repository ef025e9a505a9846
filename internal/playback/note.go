package playback

import (
	"math"
	"strconv"
	"strings"
)

// semitones from C within an octave.
var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// EqualTemperament resolves scientific pitch names such as "A4", "C#5" or
// "Bb3" against A4 = 440 Hz. Octaves run from 0 to 9.
func EqualTemperament(name string) (float64, bool) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return 0, false
	}
	semi, ok := noteOffsets[strings.ToUpper(name[:1])[0]]
	if !ok {
		return 0, false
	}
	rest := name[1:]
	switch rest[0] {
	case '#':
		semi++
		rest = rest[1:]
	case 'b':
		semi--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 || octave > 9 {
		return 0, false
	}
	midi := (octave+1)*12 + semi
	return 440 * math.Pow(2, float64(midi-69)/12), true
}

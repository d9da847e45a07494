package wire

import "strconv"

// Shot is the sound a gesture triggers: a pitch played once for Duration
// seconds.
type Shot struct {
	Pitch    int     `yaml:"pitch"`
	Duration float64 `yaml:"duration"`
}

// Gestures maps gesture tokens to the sound they trigger.
type Gestures map[string]Shot

var DefaultGestures = Gestures{
	"ThumbsUp":   {72, 0.2},
	"ThumbsDown": {48, 0.3},
	"Peace":      {67, 0.2},
	"Rock":       {60, 0.3},
	"OK":         {64, 0.2},
	"Fist":       {55, 0.3},
	"OpenHand":   {72, 0.2},
	"Point":      {69, 0.2},
	"CallMe":     {65, 0.2},
	"0":          {60, 0.15},
	"1":          {62, 0.15},
	"2":          {64, 0.15},
	"3":          {65, 0.15},
	"4":          {67, 0.15},
	"5":          {69, 0.15},
	"6":          {71, 0.15},
	"7":          {72, 0.15},
	"8":          {74, 0.15},
	"9":          {76, 0.15},
}

// Lookup returns the sound for g. Gestures that carry no token fall back to
// the digit their id stands for.
func (t Gestures) Lookup(g Gesture) (Shot, bool) {
	token := g.Token
	if token == "" && g.ID >= 1 && g.ID <= 10 {
		token = strconv.Itoa(g.ID - 1)
	}
	shot, ok := t[token]
	return shot, ok
}

// Merge returns a copy of t with the entries of other added or replaced.
func (t Gestures) Merge(other Gestures) Gestures {
	merged := make(Gestures, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

var gestureNames = [...]string{
	"None",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"Thumbs Up",
	"Peace",
	"Rock",
	"OK",
	"Fist",
	"Open Hand",
	"Point",
	"Call Me",
	"Gun",
}

// Name returns the display name for the gesture, preferring the one the
// controller's id stands for.
func (g Gesture) Name() string {
	if g.ID >= 0 && g.ID < len(gestureNames) {
		return gestureNames[g.ID]
	}
	return g.Token
}

package env

// LapStats accumulates speed statistics over the current lap.
type LapStats struct {
	Max   float64
	Min   float64
	Sum   float64
	Steps int
}

// Reset starts a new lap seeded with the current speed so Max and Min are
// defined before the first update.
func (s *LapStats) Reset(speed float64) {
	s.Max = speed
	s.Min = speed
	s.Sum = speed
	s.Steps = 1
}

func (s *LapStats) Update(speed float64) {
	s.Max = max(s.Max, speed)
	s.Min = min(s.Min, speed)
	s.Sum += speed
	s.Steps++
}

func (s *LapStats) Mean() float64 {
	if s.Steps == 0 {
		return 0
	}
	return s.Sum / float64(s.Steps)
}

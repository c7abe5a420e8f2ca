package signal

import (
	"errors"
	"fmt"
)

// Color is the status dot shown for a timed segment
type Color string

const (
	ColorGray   Color = "gray"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorBell   Color = "bell"
)

// Grace is how long after the red card a speaker may run before the bell
const Grace = 30

// Band groups planned durations that share a card schedule
type Band string

const (
	BandShort  Band = "SHORT"
	BandMedium Band = "MEDIUM"
	BandLong   Band = "LONG"
)

// Cards holds the elapsed seconds at which each card is shown
type Cards struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// Color classifies an actual duration against the card schedule
func (c Cards) Color(actualSeconds int) Color {
	switch {
	case actualSeconds < c.Green:
		return ColorGray
	case actualSeconds < c.Yellow:
		return ColorGreen
	case actualSeconds < c.Red:
		return ColorYellow
	case actualSeconds < c.Red+Grace:
		return ColorRed
	default:
		return ColorBell
	}
}

// Strategy is the interface that every card schedule must implement
type Strategy interface {
	// Cards computes the card times for a planned duration in minutes
	Cards(plannedMinutes int) Cards

	// Band returns the band identifier for this strategy
	Band() Band

	// Validate checks that the planned duration falls in this band
	Validate(plannedMinutes int) error
}

// Factory picks card schedules by planned duration
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for a band
func (f *Factory) Create(band Band) (Strategy, error) {
	switch band {
	case BandShort:
		return &ShortStrategy{}, nil
	case BandMedium:
		return &MediumStrategy{}, nil
	case BandLong:
		return &LongStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown signal band: %s", band)
	}
}

// ForDuration returns the strategy whose band covers plannedMinutes
func (f *Factory) ForDuration(plannedMinutes int) (Strategy, error) {
	if plannedMinutes <= 0 {
		return nil, ErrNonPositivePlanned
	}
	switch {
	case plannedMinutes <= shortMaxMinutes:
		return f.Create(BandShort)
	case plannedMinutes <= mediumMaxMinutes:
		return f.Create(BandMedium)
	default:
		return f.Create(BandLong)
	}
}

// DotColor computes the status dot for a segment planned for plannedMinutes that ran actualSeconds
func (f *Factory) DotColor(plannedMinutes, actualSeconds int) (Color, error) {
	s, err := f.ForDuration(plannedMinutes)
	if err != nil {
		return "", err
	}
	if err := s.Validate(plannedMinutes); err != nil {
		return "", err
	}
	return s.Cards(plannedMinutes).Color(actualSeconds), nil
}

const (
	shortMaxMinutes  = 3
	mediumMaxMinutes = 10
)

var (
	ErrNonPositivePlanned = errors.New("planned duration must be at least one minute")
	ErrOutOfBand          = errors.New("planned duration does not belong to this signal band")
)

// cardsBefore places green and yellow the given number of seconds before the planned end
func cardsBefore(plannedMinutes, green, yellow int) Cards {
	planned := plannedMinutes * 60
	return Cards{Green: planned - green, Yellow: planned - yellow, Red: planned}
}

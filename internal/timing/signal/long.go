package signal

// LongStrategy covers segments over ten minutes
type LongStrategy struct{}

// Band returns the band identifier
func (s *LongStrategy) Band() Band {
	return BandLong
}

// Validate checks the planned duration is within the long band
func (s *LongStrategy) Validate(plannedMinutes int) error {
	if plannedMinutes <= mediumMaxMinutes {
		return ErrOutOfBand
	}
	return nil
}

// Cards returns the card schedule for a long segment: green five minutes and yellow two minutes before the end
func (s *LongStrategy) Cards(plannedMinutes int) Cards {
	return cardsBefore(plannedMinutes, 300, 120)
}

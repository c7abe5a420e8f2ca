package signal

// ShortStrategy covers speeches of up to three minutes: green one minute before the end,
// yellow thirty seconds before
type ShortStrategy struct{}

// Band returns the band identifier
func (s *ShortStrategy) Band() Band {
	return BandShort
}

// Validate checks the planned duration is within the short band
func (s *ShortStrategy) Validate(plannedMinutes int) error {
	if plannedMinutes <= 0 {
		return ErrNonPositivePlanned
	}
	if plannedMinutes > shortMaxMinutes {
		return ErrOutOfBand
	}
	return nil
}

// Cards returns the card schedule for a short speech
func (s *ShortStrategy) Cards(plannedMinutes int) Cards {
	return cardsBefore(plannedMinutes, 60, 30)
}

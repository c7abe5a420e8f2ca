package signal

// MediumStrategy covers segments of four to ten minutes: green two minutes before the end,
// yellow one minute before
type MediumStrategy struct{}

// Band returns the band identifier
func (s *MediumStrategy) Band() Band {
	return BandMedium
}

// Validate checks the planned duration is within the medium band
func (s *MediumStrategy) Validate(plannedMinutes int) error {
	if plannedMinutes <= shortMaxMinutes || plannedMinutes > mediumMaxMinutes {
		return ErrOutOfBand
	}
	return nil
}

// Cards returns the card schedule for a medium segment
func (s *MediumStrategy) Cards(plannedMinutes int) Cards {
	return cardsBefore(plannedMinutes, 120, 60)
}

package swiss

import "errors"

var (
	// ErrPairingInfeasible is returned when some player has already played
	// every remaining opponent.
	ErrPairingInfeasible = errors.New("pairing infeasible: no unplayed opponent left")

	// ErrByeExhausted is returned for an odd field in which every player
	// already had a bye.
	ErrByeExhausted = errors.New("pairing infeasible: every player already received a bye")

	ErrUnknownStrategy = errors.New("unknown pairing strategy")
)

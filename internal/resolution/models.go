package resolution

import "errors"

// The closed error taxonomy for a resolution run. Handlers map these to HTTP
// statuses with errors.Is; anything unrecognized is treated as internal.
var (
	ErrValidation  = errors.New("validation error")
	ErrProvider    = errors.New("provider error")
	ErrPersistence = errors.New("persistence error")
	ErrInternal    = errors.New("internal error")
)

const (
	OutcomeConfirmed         = "confirmed"
	OutcomeNeedsConfirmation = "needs_confirmation"
)

type ResolveRequest struct {
	MediaID   string
	FrameURLs []string
	Country   string
	City      string
}

// Outcome is the terminal result of one resolution run. Exactly one of the
// two shapes is populated: Confirmed carries RestaurantID and Score;
// NeedsConfirmation carries up to MaxResults candidates plus the OCR text.
type Outcome struct {
	Status       string
	RestaurantID string
	Score        float64
	Candidates   []ScoredPlace
	OCRText      string
}

// OCROutcome is the result of the OCR-only operation.
type OCROutcome struct {
	Status string
	Text   []string
}

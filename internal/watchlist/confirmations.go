package watchlist

import (
	"fmt"

	"github.com/vrsandeep/telly-go/internal/models"
)

// Confirmation renders the user-facing text for an action's outcome. The
// series may be nil when unfollowing something that was never tracked.
func Confirmation(outcome Outcome, series *models.Series) string {
	name := "that series"
	if series != nil {
		name = series.Name
	}

	switch outcome {
	case OutcomeNewlyFollowed:
		return fmt.Sprintf("_You are now following %s and will receive notification before a new episode airs._", name)
	case OutcomeRefollowed:
		return fmt.Sprintf("_Welcome back! You are once again following %s and will receive notification before a new episode airs._", name)
	case OutcomeAlreadyFollowing:
		return fmt.Sprintf("_You are already following %s._", name)
	case OutcomeUnfollowed:
		return fmt.Sprintf("_You will no longer receive notifications for %s and are entitled to all the benefits (or lack) thereof._", name)
	case OutcomeNotFollowing:
		return fmt.Sprintf("_Congratulations! You're already *not* following %s._", name)
	default:
		return ""
	}
}

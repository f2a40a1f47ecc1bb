package activitylog

import (
	"context"

	"github.com/Amund211/ethwalletbot/internal/domain"
)

type ActivityLogger interface {
	// Append a timestamped line to the user's activity log
	Log(ctx context.Context, userID domain.UserID, text string) error
}

var _ ActivityLogger = (*File)(nil)

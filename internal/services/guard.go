package services

import "rankr-backend/internal/models"

func IsAdmin(poll *models.Poll, userID string) bool {
	return poll.AdminID == userID
}

// RequireAdmin returns ErrForbidden when the acting participant is not the
// poll's admin. Callers report the failure to the actor only; the action is
// not applied.
func RequireAdmin(poll *models.Poll, userID string) error {
	if !IsAdmin(poll, userID) {
		return models.ErrForbidden
	}
	return nil
}

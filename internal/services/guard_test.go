package services

import (
	"errors"
	"testing"

	"rankr-backend/internal/models"
)

func TestRequireAdmin(t *testing.T) {
	poll := &models.Poll{ID: "ABC123", AdminID: "admin-1"}

	if err := RequireAdmin(poll, "admin-1"); err != nil {
		t.Errorf("RequireAdmin(admin) error = %v, want nil", err)
	}
	if err := RequireAdmin(poll, "user-2"); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("RequireAdmin(non-admin) error = %v, want ErrForbidden", err)
	}
	if IsAdmin(poll, "") {
		t.Error("IsAdmin(empty id) = true, want false")
	}
}

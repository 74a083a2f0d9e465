package assistant

import (
	"context"
	"testing"

	"waygen/internal/models"
)

func TestCreateAndListReports(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	svc := NewService(db, nil, nil, 0)
	ctx := context.Background()
	userID := insertTestUser(t, db, "reports@example.com", models.Profile{})

	first, err := svc.CreateReport(ctx, userID, "Career Plan", "Step one: pick a field.")
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	second, err := svc.CreateReport(ctx, userID, "Follow-up", "Step two: apply.")
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	reports, err := svc.ListReports(ctx, userID)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != second.ID || reports[1].ID != first.ID {
		t.Fatalf("expected newest first, got %d then %d", reports[0].ID, reports[1].ID)
	}
	if reports[1].Title != "Career Plan" || reports[1].Content != "Step one: pick a field." {
		t.Fatalf("unexpected report: %+v", reports[1])
	}
}

func TestCreateReportValidation(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	svc := NewService(db, nil, nil, 0)
	ctx := context.Background()

	if _, err := svc.CreateReport(ctx, 0, "Title", "body"); err == nil {
		t.Fatalf("expected error for missing user id")
	}
	if _, err := svc.CreateReport(ctx, 1, "   ", "body"); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

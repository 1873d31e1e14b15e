package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/agenda/internal/adapters/sqlite"
	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/permission"
	"github.com/example/agenda/internal/ports/secondary"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	lead, _ := permission.Parse("6.5")
	user := &secondary.UserRecord{ID: "USR-LEAD", Name: "Lead", Department: "ward-3", FacilityID: "F1", Permission: lead}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "USR-LEAD")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Permission != lead {
		t.Errorf("Permission = %s, want 6.5", got.Permission)
	}

	level, err := repo.GetPermissionLevel(ctx, "USR-LEAD")
	if err != nil {
		t.Fatalf("GetPermissionLevel failed: %v", err)
	}
	if level.String() != "6.5" {
		t.Errorf("level = %s, want 6.5", level)
	}

	if _, err := repo.GetPermissionLevel(ctx, "USR-NOBODY"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("missing user code = %s, want NOT_FOUND", apperr.CodeOf(err))
	}
	if err := repo.Create(ctx, user); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Errorf("duplicate code = %s, want CONFLICT", apperr.CodeOf(err))
	}
	if err := repo.Create(ctx, &secondary.UserRecord{ID: "USR-BAD", Name: "Bad", Permission: permission.Level(40)}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("invalid level code = %s, want VALIDATION_ERROR", apperr.CodeOf(err))
	}
}

func TestUserRepository_ListByScope(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "USR-A", "ward-3", "F1", 10) // 5
	seedUser(t, db, "USR-B", "ward-3", "F1", 13) // 6.5
	seedUser(t, db, "USR-C", "ward-3", "F1", 14) // 7
	seedUser(t, db, "USR-D", "icu", "F1", 16)    // 8
	seedUser(t, db, "USR-E", "hq", "HQ", 22)     // 11

	tests := []struct {
		name  string
		scope secondary.UserScope
		want  []string
	}{
		{"department band", secondary.UserScope{Department: "ward-3", FacilityID: "F1", MinPermission: permission.Supervisor, MaxPermission: permission.Manager}, []string{"USR-A", "USR-B"}},
		{"facility floor", secondary.UserScope{FacilityID: "F1", MinPermission: permission.Manager}, []string{"USR-C", "USR-D"}},
		{"corporate", secondary.UserScope{MinPermission: permission.FacilityTopTier}, []string{"USR-E"}},
		{"single user", secondary.UserScope{UserID: "USR-B"}, []string{"USR-B"}},
		{"empty", secondary.UserScope{Department: "radiology"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListByScope(ctx, tt.scope)
			if err != nil {
				t.Fatalf("ListByScope failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d users, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

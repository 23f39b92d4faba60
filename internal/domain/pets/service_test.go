package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

// -------------------------
// Tests
// -------------------------

func TestService_Create_NoTagPath_GeneratesID(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.newID = func() string { return "generated-1" }

	p, err := svc.Create(context.Background(), "uidA", CreateInput{
		Name:      "  Rex ",
		OwnerName: "Ana",
		Phone:     "+56 9 1234 5678",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID != "generated-1" {
		t.Fatalf("expected generated id, got %q", p.ID)
	}
	if p.Name != "Rex" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.OwnerID != "uidA" || p.PhotoURL != nil || !p.CreatedAt.Equal(now) {
		t.Fatalf("unexpected pet %#v", p)
	}
	if _, ok := repo.byID["generated-1"]; !ok {
		t.Fatalf("pet not persisted")
	}
}

func TestService_Create_RequiredFields(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := map[string]CreateInput{
		"missing name":       {OwnerName: "Ana", Phone: "1"},
		"missing owner name": {Name: "Rex", Phone: "1"},
		"missing phone":      {Name: "Rex", OwnerName: "Ana"},
		"blank phone":        {Name: "Rex", OwnerName: "Ana", Phone: "   "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "uidA", in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	_, err := svc.Create(context.Background(), "  ", CreateInput{Name: "Rex", OwnerName: "Ana", Phone: "1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty owner, got %v", err)
	}
}

func TestService_UpdateProfile_OwnerOnly(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "uidA", CreateInput{Name: "Rex", OwnerName: "Ana", Phone: "1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err = svc.UpdateProfile(context.Background(), p.ID, "uidB", UpdateProfileInput{Name: strPtr("Stolen")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.byID[p.ID].Name != "Rex" {
		t.Fatalf("pet must not change on forbidden update")
	}
}

func TestService_UpdateProfile_PatchKeepsOwnerAndUntouchedFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	svc.now = func() time.Time { return t0 }

	p, err := svc.Create(context.Background(), "uidA", CreateInput{Name: "Rex", OwnerName: "Ana", Phone: "1", Address: "Calle 1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return t1 }
	updated, err := svc.UpdateProfile(context.Background(), p.ID, "uidA", UpdateProfileInput{
		Phone: strPtr("2"),
		Notes: strPtr("alérgico al pollo"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}

	if updated.OwnerID != "uidA" || updated.ID != p.ID {
		t.Fatalf("identity/owner must not change: %#v", updated)
	}
	if updated.Name != "Rex" || updated.Address != "Calle 1" {
		t.Fatalf("untouched fields changed: %#v", updated)
	}
	if updated.Phone != "2" || updated.Notes != "alérgico al pollo" {
		t.Fatalf("patch not applied: %#v", updated)
	}
	if !updated.CreatedAt.Equal(t0) || !updated.UpdatedAt.Equal(t1) {
		t.Fatalf("unexpected timestamps: %v / %v", updated.CreatedAt, updated.UpdatedAt)
	}
}

func TestService_UpdateProfile_CannotClearRequired(t *testing.T) {
	svc := NewService(newTestRepo())

	p, _ := svc.Create(context.Background(), "uidA", CreateInput{Name: "Rex", OwnerName: "Ana", Phone: "1"})

	_, err := svc.UpdateProfile(context.Background(), p.ID, "uidA", UpdateProfileInput{Name: strPtr("")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_OwnerOf(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	p, _ := svc.Create(context.Background(), "uidA", CreateInput{Name: "Rex", OwnerName: "Ana", Phone: "1"})

	// mascota activada desde un tag: se guarda en mayúsculas
	tagged, err := NewPet("PET-100", "uidB", CreateInput{Name: "Luna", OwnerName: "Bea", Phone: "2"}, time.Now())
	if err != nil {
		t.Fatalf("NewPet: %v", err)
	}
	if err := repo.Create(context.Background(), tagged); err != nil {
		t.Fatalf("repo create: %v", err)
	}

	cases := []struct {
		in, wantID, wantOwner string
	}{
		{p.ID, p.ID, "uidA"},
		{"PET-100", "PET-100", "uidB"},
		{"pet-100", "PET-100", "uidB"},
		{" Pet-100 ", "PET-100", "uidB"},
	}
	for _, tc := range cases {
		id, owner, err := svc.OwnerOf(context.Background(), tc.in)
		if err != nil || id != tc.wantID || owner != tc.wantOwner {
			t.Fatalf("%q: expected (%s, %s), got (%q, %q, %v)", tc.in, tc.wantID, tc.wantOwner, id, owner, err)
		}
	}

	if _, _, err := svc.OwnerOf(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

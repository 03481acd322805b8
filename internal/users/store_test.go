package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

func TestContactKey(t *testing.T) {
	cases := []struct {
		email, phone, want string
	}{
		{"Asha@Example.COM", "", "email:asha@example.com"},
		{" asha@example.com ", "+91 98765 43210", "email:asha@example.com"},
		{"", "+91 98765-43210", "phone:+919876543210"},
		{"", "(020) 2345.6789", "phone:02023456789"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := contactKey(tc.email, tc.phone); got != tc.want {
			t.Errorf("contactKey(%q, %q) = %q, want %q", tc.email, tc.phone, got, tc.want)
		}
	}
}

func TestInMemoryRecordVisitor(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if err := store.RecordVisitor(ctx, "sess-1", ""); err != nil {
		t.Fatalf("RecordVisitor: %v", err)
	}
	if err := store.RecordVisitor(ctx, "sess-1", "Asha"); err != nil {
		t.Fatalf("RecordVisitor with name: %v", err)
	}
	// a later turn without a name must not erase the known one
	if err := store.RecordVisitor(ctx, "sess-1", ""); err != nil {
		t.Fatalf("RecordVisitor: %v", err)
	}

	u, ok := store.Visitor("sess-1")
	if !ok {
		t.Fatal("visitor record missing")
	}
	if u.Name != "Asha" {
		t.Errorf("name = %q, want Asha", u.Name)
	}
	if u.ID == "" {
		t.Error("expected an assigned id")
	}
}

func TestInMemoryRecordVisitorIgnoresBlankSession(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.RecordVisitor(context.Background(), "", "Asha"); err != nil {
		t.Fatalf("RecordVisitor: %v", err)
	}
	if _, ok := store.Visitor(""); ok {
		t.Error("blank session must not create a record")
	}
}

func TestInMemoryRecordContactMerges(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	first, err := store.RecordContact(ctx, &User{Name: "Asha Patel", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("RecordContact: %v", err)
	}

	second, err := store.RecordContact(ctx, &User{Email: "ASHA@example.com", Phone: "+91 98765 43210", BusinessType: "restaurant"})
	if err != nil {
		t.Fatalf("RecordContact again: %v", err)
	}

	if second.ID != first.ID {
		t.Error("same email must merge into one record")
	}
	if second.Name != "Asha Patel" {
		t.Errorf("name = %q; empty incoming name must keep the stored one", second.Name)
	}
	if second.Phone != "+91 98765 43210" || second.BusinessType != "restaurant" {
		t.Errorf("merge lost new fields: %+v", second)
	}
}

func TestInMemoryRecordContactRequiresContact(t *testing.T) {
	store := NewInMemoryStore()
	if _, err := store.RecordContact(context.Background(), &User{Name: "Asha"}); !errors.Is(err, ErrNoContact) {
		t.Fatalf("err = %v, want ErrNoContact", err)
	}
}

func TestPostgresRecordVisitor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "sess-1", "Asha").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	if err := store.RecordVisitor(context.Background(), "sess-1", "Asha"); err != nil {
		t.Fatalf("RecordVisitor: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRecordContact(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "business_type", "created_at", "updated_at"}).
		AddRow(id, "Asha Patel", "asha@example.com", "", "restaurant", now, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "email:asha@example.com", "Asha Patel", "asha@example.com", "", "restaurant").
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	got, err := store.RecordContact(context.Background(), &User{
		Name:         "Asha Patel",
		Email:        "asha@example.com",
		BusinessType: "restaurant",
	})
	if err != nil {
		t.Fatalf("RecordContact: %v", err)
	}
	if got.ID != id.String() || got.Name != "Asha Patel" {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

func TestTranscriptAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("INSERT INTO conversations").
		WithArgs(pgxmock.AnyArg(), "sess-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO conversation_messages").
		WithArgs(pgxmock.AnyArg(), "sess-1", "user", "hello", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE conversations SET").
		WithArgs(pgxmock.AnyArg(), "sess-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	store := NewPostgresTranscriptStore(mock)
	err = store.Append(context.Background(), "sess-1", TranscriptMessage{Role: "user", Content: "hello"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTranscriptAppendRequiresSession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresTranscriptStore(mock)
	if err := store.Append(context.Background(), "  ", TranscriptMessage{Role: "user", Content: "x"}); err == nil {
		t.Fatal("expected error for blank session id")
	}
}

func TestTranscriptList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	id1, id2 := uuid.New(), uuid.New()
	rows := pgxmock.NewRows([]string{"id", "role", "content", "created_at"}).
		AddRow(id1, "user", "hi", now.Add(-time.Minute)).
		AddRow(id2, "assistant", "hello there", now)

	mock.ExpectQuery("SELECT id, role, content, created_at").
		WithArgs("sess-2", 50).
		WillReturnRows(rows)

	store := NewPostgresTranscriptStore(mock)
	got, err := store.List(context.Background(), "sess-2", 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].ID != id1.String() {
		t.Errorf("id = %s, want %s", got[0].ID, id1)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

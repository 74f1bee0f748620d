package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pgcall/pgcall/internal/logging"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// fakeOpener implements pgcall.StoreOpener in memory and counts the
// open/close pairs so release discipline can be asserted.
type fakeOpener struct {
	openErr  error
	queryErr error
	result   pgcall.RowSet

	opens   int
	closes  int
	lastSQL string
}

func (o *fakeOpener) Open(ctx context.Context) (pgcall.StoreHandle, error) {
	o.opens++
	if o.openErr != nil {
		return nil, o.openErr
	}
	return &fakeHandle{opener: o}, nil
}

type fakeHandle struct {
	opener *fakeOpener
}

func (h *fakeHandle) Query(ctx context.Context, sql string) (pgcall.RowSet, error) {
	h.opener.lastSQL = sql
	if h.opener.queryErr != nil {
		return pgcall.RowSet{}, h.opener.queryErr
	}
	return h.opener.result, nil
}

func (h *fakeHandle) Close() {
	h.opener.closes++
}

func scalarResult(text string) pgcall.RowSet {
	return pgcall.RowSet{
		Columns: []string{"value"},
		Rows:    []pgcall.Row{{pgcall.Cell{Valid: true, Text: text}}},
	}
}

func TestNewClient_PanicsOnNilOpener(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil opener")
		}
	}()
	NewClient(nil, logging.NewNullLogger())
}

func TestNewClient_PanicsOnNilLogger(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil logger")
		}
	}()
	NewClient(&fakeOpener{}, nil)
}

func TestClient_Execute(t *testing.T) {
	opener := &fakeOpener{
		result: pgcall.RowSet{
			Columns: []string{"id", "name"},
			Rows: []pgcall.Row{
				{pgcall.Cell{Valid: true, Text: "1"}, pgcall.Cell{Valid: true, Text: "alpha"}},
				{pgcall.Cell{Valid: true, Text: "2"}, pgcall.Cell{}},
			},
		},
	}
	client := NewClient(opener, logging.NewNullLogger())

	result, err := client.Execute(context.Background(), "SELECT id, name FROM things")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(result.Columns) != 2 || result.Columns[0] != "id" || result.Columns[1] != "name" {
		t.Errorf("Columns = %v", result.Columns)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Rows))
	}
	if result.Rows[1][1].Valid {
		t.Error("NULL cell should not be valid")
	}
	if opener.lastSQL != "SELECT id, name FROM things" {
		t.Errorf("statement not passed through verbatim: %q", opener.lastSQL)
	}
	if opener.opens != 1 || opener.closes != 1 {
		t.Errorf("opens = %d, closes = %d, want 1 and 1", opener.opens, opener.closes)
	}
}

func TestClient_Execute_OpenFailure(t *testing.T) {
	opener := &fakeOpener{openErr: errors.New("token acquisition failed")}
	client := NewClient(opener, logging.NewNullLogger())

	_, err := client.Execute(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, pgcall.ErrConnectFailed) {
		t.Errorf("error should chain ErrConnectFailed: %v", err)
	}
	if !errors.Is(err, opener.openErr) {
		t.Errorf("error should unwrap to the opener error: %v", err)
	}
}

func TestClient_Execute_OpenFailureAlreadyClassified(t *testing.T) {
	classified := fmt.Errorf("%w: connection refused to localhost:5432", pgcall.ErrConnectFailed)
	opener := &fakeOpener{openErr: classified}
	client := NewClient(opener, logging.NewNullLogger())

	_, err := client.Execute(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, pgcall.ErrConnectFailed) {
		t.Errorf("error should chain ErrConnectFailed: %v", err)
	}

	// The sentinel must not be stacked a second time
	if got := strings.Count(err.Error(), pgcall.ErrConnectFailed.Error()); got != 1 {
		t.Errorf("sentinel appears %d times in %q, want 1", got, err.Error())
	}
}

func TestClient_Execute_QueryFailure(t *testing.T) {
	opener := &fakeOpener{queryErr: errors.New(`syntax error at or near "SELEC"`)}
	client := NewClient(opener, logging.NewNullLogger())

	_, err := client.Execute(context.Background(), "SELEC 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, pgcall.ErrExecFailed) {
		t.Errorf("error should chain ErrExecFailed: %v", err)
	}
	if errors.Is(err, pgcall.ErrConnectFailed) {
		t.Errorf("query failure must not be classified as a connection failure: %v", err)
	}
	if opener.closes != 1 {
		t.Errorf("closes = %d, want 1 (handle must be released on query failure)", opener.closes)
	}
}

func TestClient_ExecuteScalar(t *testing.T) {
	opener := &fakeOpener{result: scalarResult("42")}
	client := NewClient(opener, logging.NewNullLogger())

	cell, err := client.ExecuteScalar(context.Background(), "SELECT 42")
	if err != nil {
		t.Fatalf("ExecuteScalar() error = %v", err)
	}
	if !cell.Valid || cell.Text != "42" {
		t.Errorf("cell = %+v, want valid 42", cell)
	}
	if opener.closes != 1 {
		t.Errorf("closes = %d, want 1", opener.closes)
	}
}

func TestClient_ExecuteScalar_NullCell(t *testing.T) {
	opener := &fakeOpener{result: pgcall.RowSet{
		Columns: []string{"value"},
		Rows:    []pgcall.Row{{pgcall.Cell{}}},
	}}
	client := NewClient(opener, logging.NewNullLogger())

	cell, err := client.ExecuteScalar(context.Background(), "SELECT NULL")
	if err != nil {
		t.Fatalf("ExecuteScalar() error = %v", err)
	}
	if cell.Valid {
		t.Errorf("cell = %+v, want SQL NULL", cell)
	}
}

func TestClient_ExecuteScalar_ShapeErrors(t *testing.T) {
	twoCells := pgcall.Row{pgcall.Cell{Valid: true, Text: "a"}, pgcall.Cell{Valid: true, Text: "b"}}
	oneCell := pgcall.Row{pgcall.Cell{Valid: true, Text: "a"}}

	tests := []struct {
		name         string
		result       pgcall.RowSet
		wantContains string
	}{
		{
			name:         "zero rows",
			result:       pgcall.RowSet{Columns: []string{"value"}},
			wantContains: "0 rows",
		},
		{
			name:         "two rows",
			result:       pgcall.RowSet{Columns: []string{"value"}, Rows: []pgcall.Row{oneCell, oneCell}},
			wantContains: "2 rows",
		},
		{
			name:         "two columns",
			result:       pgcall.RowSet{Columns: []string{"a", "b"}, Rows: []pgcall.Row{twoCells}},
			wantContains: "2 columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{result: tt.result}
			client := NewClient(opener, logging.NewNullLogger())

			_, err := client.ExecuteScalar(context.Background(), "SELECT ...")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, pgcall.ErrUnexpectedRowCount) {
				t.Errorf("error should chain ErrUnexpectedRowCount: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantContains)
			}
			if opener.closes != 1 {
				t.Errorf("closes = %d, want 1 (handle released before shape check)", opener.closes)
			}
		})
	}
}

// Repeated failing calls must not leak handles.
func TestClient_ReleaseDiscipline(t *testing.T) {
	opener := &fakeOpener{queryErr: errors.New("boom")}
	client := NewClient(opener, logging.NewNullLogger())

	for i := 0; i < 1000; i++ {
		if _, err := client.ExecuteScalar(context.Background(), "SELECT 1"); err == nil {
			t.Fatal("expected error")
		}
	}

	if opener.opens != 1000 {
		t.Errorf("opens = %d, want 1000", opener.opens)
	}
	if opener.closes != 1000 {
		t.Errorf("closes = %d, want 1000", opener.closes)
	}
}

func TestQueryPreview(t *testing.T) {
	short := "SELECT 1"
	if got := queryPreview(short); got != short {
		t.Errorf("queryPreview(%q) = %q", short, got)
	}

	long := strings.Repeat("x", pgcall.MaxQueryPreviewLength+50)
	got := queryPreview(long)
	if len(got) != pgcall.MaxQueryPreviewLength+3 {
		t.Errorf("len = %d, want %d", len(got), pgcall.MaxQueryPreviewLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview should end with ellipsis: %q", got)
	}
}

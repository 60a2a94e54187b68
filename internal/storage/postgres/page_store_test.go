package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageharvest/harvester/internal/crawler"
)

func TestNewPageStoreRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := NewPageStore(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestNewPageStoreWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewPageStoreWithPool(nil)
	require.Error(t, err)
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS crawled_pages").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	store, err := NewPageStoreWithPool(mock)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	res := crawler.Result{
		SessionID: "6a1f0d3e-9f3f-4a61-8c8f-0a4f6f2e9c11",
		URL:       "https://example.com/page",
		Title:     "Example",
		Content:   "body text",
		Depth:     1,
		Outcome:   crawler.OutcomeSuccess,
	}

	mock.ExpectExec("INSERT INTO crawled_pages").
		WithArgs(res.SessionID, res.URL, res.Title, res.Content, res.Depth, "success", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store, err := NewPageStoreWithPool(mock)
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), res))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWrapsError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO crawled_pages").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	store, err := NewPageStoreWithPool(mock)
	require.NoError(t, err)

	err = store.Insert(context.Background(), crawler.Result{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert crawled page")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySession(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	session := "6a1f0d3e-9f3f-4a61-8c8f-0a4f6f2e9c11"
	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "session_id", "url", "title", "content", "depth", "outcome", "created_at"}).
		AddRow(int64(1), session, "https://example.com/", "Home", "welcome", 0, "success", now).
		AddRow(int64(2), session, "https://example.com/a", "A", "", 1, "failed", now)

	mock.ExpectQuery("SELECT id, session_id, url, title, content, depth, outcome, created_at").
		WithArgs(session).
		WillReturnRows(rows)

	store, err := NewPageStoreWithPool(mock)
	require.NoError(t, err)

	records, err := store.ListBySession(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "https://example.com/", records[0].URL)
	assert.Equal(t, crawler.OutcomeSuccess, records[0].Outcome)
	assert.Equal(t, crawler.OutcomeFailed, records[1].Outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySessionQueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, session_id").
		WithArgs("s1").
		WillReturnError(errors.New("timeout"))

	store, err := NewPageStoreWithPool(mock)
	require.NoError(t, err)

	_, err = store.ListBySession(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list session pages")
	require.NoError(t, mock.ExpectationsWereMet())
}

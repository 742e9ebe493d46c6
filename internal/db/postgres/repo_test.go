package postgres

import (
	"Domainscope/internal/core/authority"
	"Domainscope/internal/core/traffic"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectAuthoritySQL = `SELECT url, da, pa, created_at FROM domain_stats WHERE url = \$1`
	upsertAuthoritySQL = `INSERT INTO domain_stats \(url, da, pa, created_at\) VALUES \(\$1, \$2, \$3, \$4\) ON CONFLICT \(url\) DO UPDATE`
	selectTrafficSQL   = `SELECT domain, data, created_at FROM similarweb_stats WHERE domain = \$1`
	upsertTrafficSQL   = `INSERT INTO similarweb_stats \(domain, data, created_at\) VALUES \(\$1, \$2, \$3\) ON CONFLICT \(domain\) DO UPDATE`
	updateTrafficSQL   = `UPDATE similarweb_stats SET data = \$1, created_at = \$2 WHERE domain = \$3`
)

// captureArg matches any driver value and remembers it.
type captureArg struct {
	value driver.Value
}

func (c *captureArg) Match(v driver.Value) bool {
	c.value = v
	return true
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func freezeTime(t *testing.T) string {
	t.Helper()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 600000000, time.Local)
	nowFunc = func() time.Time { return fixed }
	t.Cleanup(func() { nowFunc = time.Now })
	return "2025-01-02T03:04:05.600000"
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestAuthorityRepo_Get_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorityRepository(db)

	mock.ExpectQuery(selectAuthoritySQL).
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"url", "da", "pa", "created_at"}).
			AddRow("example.com", 93.0, nil, "2025-01-02T03:04:05.600000"))

	rec, err := repo.Get(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "example.com", rec.URL)
	require.NotNil(t, rec.DomainAuthority)
	assert.Equal(t, 93.0, *rec.DomainAuthority)
	assert.Nil(t, rec.PageAuthority)
	assert.Equal(t, "2025-01-02T03:04:05.600000", rec.CreatedAt)
}

func TestAuthorityRepo_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorityRepository(db)

	mock.ExpectQuery(selectAuthoritySQL).
		WithArgs("missing.com").
		WillReturnRows(sqlmock.NewRows([]string{"url", "da", "pa", "created_at"}))

	rec, err := repo.Get(context.Background(), "missing.com")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, authority.ErrNotFound)
	assert.False(t, IsStoreError(err))
}

func TestAuthorityRepo_Get_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorityRepository(db)

	connErr := errors.New("connection reset by peer")
	mock.ExpectQuery(selectAuthoritySQL).WillReturnError(connErr)

	_, err := repo.Get(context.Background(), "example.com")
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, connErr)
}

func TestAuthorityRepo_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorityRepository(db)
	ts := freezeTime(t)

	mock.ExpectExec(upsertAuthoritySQL).
		WithArgs("example.com", 93.0, 71.5, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), "example.com", floatPtr(93), floatPtr(71.5))
	require.NoError(t, err)
}

func TestAuthorityRepo_Upsert_NullScores(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorityRepository(db)
	ts := freezeTime(t)

	mock.ExpectExec(upsertAuthoritySQL).
		WithArgs("example.com", nil, nil, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), "example.com", nil, nil))
}

func TestAuthorityRepo_Upsert_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorityRepository(db)

	mock.ExpectExec(upsertAuthoritySQL).WillReturnError(errors.New("value too long for type character varying(255)"))

	err := repo.Upsert(context.Background(), "example.com", nil, nil)
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.Contains(t, err.Error(), "upsert authority")
}

func TestTrafficRepo_UpsertThenGet_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)
	ts := freezeTime(t)

	original := json.RawMessage(`{
		"SiteName": "example.com",
		"Engagments": {"Visits": "1234", "BounceRate": 0.41},
		"TopCountryShares": [{"Country": 840, "Value": 0.5}],
		"IsSmall": false
	}`)

	stored := &captureArg{}
	mock.ExpectExec(upsertTrafficSQL).
		WithArgs("example.com", stored, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), "example.com", original))

	text, ok := stored.value.(string)
	require.True(t, ok, "data should be stored as text")

	mock.ExpectQuery(selectTrafficSQL).
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"domain", "data", "created_at"}).
			AddRow("example.com", text, ts))

	rec, err := repo.Get(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "example.com", rec.Domain)
	assert.Equal(t, ts, rec.CreatedAt)
	assert.JSONEq(t, string(original), string(rec.Data))
}

func TestTrafficRepo_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)

	mock.ExpectQuery(selectTrafficSQL).
		WithArgs("missing.com").
		WillReturnRows(sqlmock.NewRows([]string{"domain", "data", "created_at"}))

	_, err := repo.Get(context.Background(), "missing.com")
	assert.ErrorIs(t, err, traffic.ErrNotFound)
}

func TestTrafficRepo_Get_NullData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)

	mock.ExpectQuery(selectTrafficSQL).
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"domain", "data", "created_at"}).
			AddRow("example.com", nil, "2025-01-01T00:00:00.000000"))

	rec, err := repo.Get(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "null", string(rec.Data))
}

func TestTrafficRepo_Get_CorruptData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)

	mock.ExpectQuery(selectTrafficSQL).
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"domain", "data", "created_at"}).
			AddRow("example.com", "{truncated", "2025-01-01T00:00:00.000000"))

	_, err := repo.Get(context.Background(), "example.com")
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestTrafficRepo_Upsert_InvalidJSON(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewTrafficRepository(db)

	err := repo.Upsert(context.Background(), "example.com", json.RawMessage(`{nope`))
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestTrafficRepo_UpdateData_UnknownDomain(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)
	ts := freezeTime(t)

	mock.ExpectExec(updateTrafficSQL).
		WithArgs(`{"v":2}`, ts, "unknown.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateData(context.Background(), "unknown.com", json.RawMessage(`{"v": 2}`))
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestTrafficRepo_UpdateData_KnownDomain(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)
	ts := freezeTime(t)

	mock.ExpectExec(updateTrafficSQL).
		WithArgs(`{"v":2}`, ts, "known.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateData(context.Background(), "known.com", json.RawMessage(`{"v":2}`))
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestTrafficRepo_UpdateData_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTrafficRepository(db)

	mock.ExpectExec(updateTrafficSQL).WillReturnError(sql.ErrConnDone)

	_, err := repo.UpdateData(context.Background(), "known.com", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestNewRepositories_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() { NewAuthorityRepository(nil) })
	assert.Panics(t, func() { NewTrafficRepository(nil) })
}

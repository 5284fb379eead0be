package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func TestNewFlat(t *testing.T) {
	client, _ := setupTestRedis(t)
	f := NewFlat(client, nil, nil)

	assert.NotNil(t, f.ids)
	assert.NotNil(t, f.logger)
	assert.Equal(t, UsersBlobKey, f.users.key)
	assert.Equal(t, ReportsBlobKey, f.reports.key)
	assert.Equal(t, []string{ColEmail, ColUsername}, f.users.unique)
	assert.Contains(t, f.reports.columns, ColStatus)
}

func TestFlat_EnsureSchemaKeepsExistingBlob(t *testing.T) {
	client, mr := setupTestRedis(t)
	f := NewFlat(client, nil, nil)

	require.NoError(t, mr.Set(ReportsBlobKey, `[{"id":1,"titulo":"x","estado":"pending"}]`))
	require.NoError(t, f.EnsureSchema(context.Background()))

	got, err := mr.Get(ReportsBlobKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"titulo":"x","estado":"pending"}]`, got)

	users, err := mr.Get(UsersBlobKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", users)
}

func TestFlat_InsertPrependsNewest(t *testing.T) {
	client, mr := setupTestRedis(t)
	f := NewFlat(client, nil, nil)
	ctx := context.Background()

	_, err := f.Reports().Insert(ctx, &ReportRow{Title: "first", Status: "pending"})
	require.NoError(t, err)
	_, err = f.Reports().Insert(ctx, &ReportRow{Title: "second", Status: "pending"})
	require.NoError(t, err)

	raw, err := mr.Get(ReportsBlobKey)
	require.NoError(t, err)

	var stored []ReportRow
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "second", stored[0].Title)
	assert.Greater(t, stored[0].ID, stored[1].ID)
}

func TestFlat_IDsStayAboveStoredIDs(t *testing.T) {
	client, mr := setupTestRedis(t)
	frozen := time.UnixMilli(1000)
	f := NewFlat(client, NewIDSource(func() time.Time { return frozen }), nil)

	require.NoError(t, mr.Set(ReportsBlobKey, `[{"id":5000,"titulo":"old","estado":"pending"}]`))

	id, err := f.Reports().Insert(context.Background(), &ReportRow{Title: "new", Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(5001), id)
}

func TestFlat_CorruptBlobReadsAsEmpty(t *testing.T) {
	client, mr := setupTestRedis(t)
	f := NewFlat(client, nil, nil)

	require.NoError(t, mr.Set(ReportsBlobKey, "{not json"))

	rows, err := f.Reports().QueryAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = f.Reports().QueryWhere(context.Background(), Eq(ColStatus, "pending"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFlat_CorruptBlobFailsWrites(t *testing.T) {
	client, mr := setupTestRedis(t)
	f := NewFlat(client, nil, nil)
	ctx := context.Background()

	require.NoError(t, mr.Set(ReportsBlobKey, "{not json"))

	_, err := f.Reports().Insert(ctx, &ReportRow{Title: "x", Status: "pending"})
	assert.ErrorIs(t, err, ErrUnavailable)

	err = f.Reports().Update(ctx, 1, Patch{ColStatus: "resolved"})
	assert.ErrorIs(t, err, ErrUnavailable)

	raw, err := mr.Get(ReportsBlobKey)
	require.NoError(t, err)
	assert.Equal(t, "{not json", raw, "a failed write must leave the blob untouched")
}

func TestFlat_MissingKeyReadsAsEmpty(t *testing.T) {
	client, _ := setupTestRedis(t)
	f := NewFlat(client, nil, nil)

	rows, err := f.Users().QueryAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFlat_UpdateRejectsUnknownColumn(t *testing.T) {
	client, _ := setupTestRedis(t)
	f := NewFlat(client, nil, nil)

	err := f.Reports().Update(context.Background(), 1, Patch{"bogus": 1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFlat_RedisErrorsSurface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(mock redismock.ClientMock)
		run   func(f *Flat) error
	}{
		{
			name: "failure: GET error on read",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(ReportsBlobKey).SetErr(errors.New("connection reset"))
			},
			run: func(f *Flat) error {
				_, err := f.Reports().QueryAll(context.Background())
				return err
			},
		},
		{
			name: "failure: SET error on insert",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(ReportsBlobKey).RedisNil()
				mock.Regexp().ExpectSet(ReportsBlobKey, `.*`, 0).SetErr(errors.New("read only replica"))
			},
			run: func(f *Flat) error {
				_, err := f.Reports().Insert(context.Background(), &ReportRow{Title: "x", Status: "pending"})
				return err
			},
		},
		{
			name: "failure: SETNX error on schema",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectSetNX(UsersBlobKey, "[]", 0).SetErr(errors.New("timeout"))
			},
			run: func(f *Flat) error {
				return f.EnsureSchema(context.Background())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()
			tt.setup(mock)

			f := NewFlat(rdb, nil, nil)
			err := tt.run(f)

			assert.ErrorIs(t, err, ErrUnavailable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRawEqual(t *testing.T) {
	assert.True(t, rawEqual(json.RawMessage(`"a"`), json.RawMessage(`"a"`)))
	assert.True(t, rawEqual(json.RawMessage(` 12 `), json.RawMessage(`12`)))
	assert.True(t, rawEqual(nil, json.RawMessage(`null`)))
	assert.False(t, rawEqual(json.RawMessage(`"A"`), json.RawMessage(`"a"`)))
	assert.False(t, rawEqual(json.RawMessage(`1`), json.RawMessage(`"1"`)))
}

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadLocation_Fallback は不明なタイムゾーン名で固定オフセットにフォールバックすることを検証します。
func TestLoadLocation_Fallback(t *testing.T) {
	t.Parallel()

	loc := LoadLocation("Nowhere/Invalid")
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, fallbackOffset, offset)
}

// TestCivil_Now は現在時刻がロケーションに変換され秒単位に丸められることを検証します。
func TestCivil_Now(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CST", fallbackOffset)
	c := NewCivil(loc)
	c.now = func() time.Time {
		return time.Date(2024, 5, 10, 18, 30, 15, 999, time.UTC)
	}

	got := c.Now()
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, 0, got.Nanosecond())
	assert.Same(t, loc, c.Location())
}

// TestFormatParse_RoundTrip は永続化テキストの形式と解釈を検証します。
func TestFormatParse_RoundTrip(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CST", fallbackOffset)
	ts := time.Date(2024, 3, 2, 9, 5, 7, 0, loc)

	s := Format(ts, loc)
	assert.Equal(t, "2024-03-02T09:05:07", s)

	back, err := Parse(s, loc)
	require.NoError(t, err)
	assert.True(t, ts.Equal(back))

	assert.Equal(t, "", Format(time.Time{}, loc))
}

// TestParse_RFC3339AndInvalid はRFC3339形式と不正な文字列の扱いを検証します。
func TestParse_RFC3339AndInvalid(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CST", fallbackOffset)
	got, err := Parse("2024-03-02T15:05:07Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())

	_, err = Parse("not-a-date", loc)
	assert.Error(t, err)
}

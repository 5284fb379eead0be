// Package clock は固定タイムゾーン（民間時刻）の時計と、永続化用の時刻フォーマットを提供します。
package clock

import (
	"time"
)

const (
	// DefaultZone は作成日時の刻印と統計計算で使用するタイムゾーンです。
	DefaultZone = "America/Mexico_City"

	// Layout は永続化される日時テキストの形式です（タイムゾーン表記なしの民間時刻）。
	Layout = "2006-01-02T15:04:05"

	// fallbackOffset はtzdataが利用できない場合に使用するUTCオフセットです。
	fallbackOffset = -6 * 60 * 60
)

// Clock は現在時刻を返します。テストでは固定時刻の実装を注入します。
type Clock interface {
	Now() time.Time
}

// LoadLocation は指定されたタイムゾーンを読み込みます。
// 読み込みに失敗した場合は固定オフセット（UTC-6）のゾーンを返します。
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, fallbackOffset)
	}
	return loc
}

// Civil は固定タイムゾーンで秒単位に丸めた現在時刻を返す Clock です。
type Civil struct {
	loc *time.Location
	now func() time.Time
}

// NewCivil は指定されたロケーションの Civil を生成します。
func NewCivil(loc *time.Location) *Civil {
	if loc == nil {
		loc = LoadLocation(DefaultZone)
	}
	return &Civil{loc: loc, now: time.Now}
}

// Now は民間時刻での現在時刻を返します。
func (c *Civil) Now() time.Time {
	return c.now().In(c.loc).Truncate(time.Second)
}

// Location は時計のタイムゾーンを返します。
func (c *Civil) Location() *time.Location {
	return c.loc
}

// Format は t を永続化用テキストに変換します。ゼロ値は空文字になります。
func Format(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(Layout)
}

// Parse は永続化テキストを loc の時刻として解釈します。
// RFC3339形式（タイムゾーン付き）も受け付けます。
func Parse(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(Layout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

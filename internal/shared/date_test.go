package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-02-28 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", d.String())

	_, err = ParseDate("28/02/2026")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	due := NewDate(2026, time.February, 25)
	today := NewDate(2026, time.March, 2)
	assert.Equal(t, 5, today.DaysSince(due))
	assert.True(t, due.Before(today))
	assert.True(t, today.After(due))
	assert.True(t, due.AddDays(5).Equal(today))
}

func TestDateOfDropsClock(t *testing.T) {
	at := time.Date(2026, time.March, 31, 23, 59, 0, 0, time.FixedZone("X", -5*3600))
	assert.Equal(t, "2026-03-31", DateOf(at).String())
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Due  Date  `json:"due"`
		Paid *Date `json:"paid"`
	}
	out, err := json.Marshal(payload{Due: NewDate(2026, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-01-05","paid":null}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-04-01","paid":"2026-04-03"}`), &in))
	assert.Equal(t, "2026-04-01", in.Due.String())
	require.NotNil(t, in.Paid)
	assert.Equal(t, "2026-04-03", in.Paid.String())

	assert.Error(t, json.Unmarshal([]byte(`{"due":20260401}`), &in))
}

func TestDateValue(t *testing.T) {
	v, err := Date{}.DateValue()
	require.NoError(t, err)
	assert.False(t, v.Valid)

	v, err = NewDate(2026, time.May, 1).DateValue()
	require.NoError(t, err)
	assert.True(t, v.Valid)

	var d Date
	require.NoError(t, d.ScanDate(v))
	assert.Equal(t, "2026-05-01", d.String())
}

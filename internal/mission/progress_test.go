package mission

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressString(t *testing.T) {
	assert.Equal(t, "0/2000", Progress{Current: 0, Total: 2000}.String())
	assert.Equal(t, "1500.5/2000", Progress{Current: 1500.5, Total: 2000}.String())
	assert.Equal(t, "0/0", Progress{}.String())
}

func TestParseProgress(t *testing.T) {
	p, err := ParseProgress("1500/2000")
	require.NoError(t, err)
	assert.Equal(t, Progress{Current: 1500, Total: 2000}, p)

	p, err = ParseProgress(" 3.5 / 10 ")
	require.NoError(t, err)
	assert.Equal(t, Progress{Current: 3.5, Total: 10}, p)

	// Empty string is valid zero progress.
	p, err = ParseProgress("")
	require.NoError(t, err)
	assert.Equal(t, Progress{}, p)

	_, err = ParseProgress("2000")
	assert.Error(t, err)

	_, err = ParseProgress("abc/2000")
	assert.Error(t, err)

	_, err = ParseProgress("10/xyz")
	assert.Error(t, err)
}

func TestProgressJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Progress{Current: 750, Total: 2000})
	require.NoError(t, err)
	assert.Equal(t, `"750/2000"`, string(data))

	var p Progress
	require.NoError(t, json.Unmarshal([]byte(`"750/2000"`), &p))
	assert.Equal(t, Progress{Current: 750, Total: 2000}, p)

	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
}

func TestClampCurrent(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		total   float64
		want    float64
	}{
		{"within range", 50, 100, 50},
		{"at total", 100, 100, 100},
		{"over total", 500, 100, 100},
		{"negative clamps to zero", -50, 100, 0},
		{"zero", 0, 100, 0},
		{"fractional", 99.9, 100, 99.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampCurrent(tt.current, tt.total))
		})
	}
}

func TestEpoch(t *testing.T) {
	e := EpochFromTime(time.Date(2025, 6, 15, 23, 59, 0, 0, time.Local))
	assert.Equal(t, Epoch("2025-06-15"), e)

	// Same calendar day, different clock times, same epoch.
	morning := EpochFromTime(time.Date(2025, 6, 15, 0, 1, 0, 0, time.Local))
	assert.Equal(t, e, morning)

	next := EpochFromTime(time.Date(2025, 6, 16, 0, 0, 1, 0, time.Local))
	assert.NotEqual(t, e, next)

	parsed, err := ParseEpoch("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, e, parsed)

	_, err = ParseEpoch("15-06-2025")
	assert.Error(t, err)
	_, err = ParseEpoch("not a date")
	assert.Error(t, err)
}

package mission

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Progress is the numeric pair behind the "current/total" wire string. All
// arithmetic happens on the pair; the string form exists only at the API
// boundary.
type Progress struct {
	Current float64 `json:"-"`
	Total   float64 `json:"-"`
}

func (p Progress) String() string {
	return fmt.Sprintf("%s/%s", formatAmount(p.Current), formatAmount(p.Total))
}

func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Progress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseProgress(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseProgress parses a "current/total" string. The empty string is a valid
// zero progress (the source app stored '' before any update).
func ParseProgress(s string) (Progress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Progress{}, nil
	}

	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return Progress{}, fmt.Errorf("invalid progress %q: expected \"current/total\"", s)
	}

	current, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Progress{}, fmt.Errorf("invalid progress current %q", parts[0])
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Progress{}, fmt.Errorf("invalid progress total %q", parts[1])
	}

	return Progress{Current: current, Total: total}, nil
}

// ClampCurrent bounds a requested progress value to [0, total]. Negative
// results from client-side decrements clamp to zero rather than erroring.
func ClampCurrent(current, total float64) float64 {
	if current < 0 {
		return 0
	}
	if current > total {
		return total
	}
	return current
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Epoch is the calendar-day key ("2006-01-02") that scopes attempt
// uniqueness. Handlers derive it from the request clock; services and tests
// take it as an explicit parameter.
type Epoch string

func EpochFromTime(t time.Time) Epoch {
	return Epoch(t.Format("2006-01-02"))
}

func ParseEpoch(s string) (Epoch, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return EpochFromTime(t), nil
}

func (e Epoch) String() string { return string(e) }

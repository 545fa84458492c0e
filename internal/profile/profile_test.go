package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForExp(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{2000, 3},
		{30, 1},
		{12345, 13},
		{-5, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForExp(tt.exp), "exp=%d", tt.exp)
	}
}

func TestLevelForExpNeverDecreasesWithMonotonicExp(t *testing.T) {
	prev := LevelForExp(0)
	for exp := 0; exp <= 10000; exp += 37 {
		l := LevelForExp(exp)
		assert.GreaterOrEqual(t, l, prev)
		prev = l
	}
}

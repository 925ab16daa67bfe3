// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.14
//

package goclk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewGTime(t *testing.T) {
	// 2023/01/01 00:00:00 UTC is the start of GPS week 2243
	gt := NewGTime(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2243, gt.Week)
	assert.Equal(t, 0.0, gt.Sec)

	gt = NewGTime(time.Date(2023, 1, 2, 3, 4, 5, 500000000, time.UTC))
	assert.Equal(t, 2243, gt.Week)
	assert.InDelta(t, 86400+3*3600+4*60+5.5, gt.Sec, 1e-9)
}

func TestGTimeSecRoundTrip(t *testing.T) {
	sec := testT0 + 12345.75
	gt := NewGTimeSec(sec)
	assert.Equal(t, 2243, gt.Week)
	assert.InDelta(t, 12345.75, gt.Sec, 1e-9)
	assert.Equal(t, sec, gt.TotalSec())
}

func TestGTimeToTime(t *testing.T) {
	gt := GTime{Week: 2243, Sec: 30}
	assert.True(t, gt.ToTime().Equal(time.Date(2023, 1, 1, 0, 0, 30, 0, time.UTC)))
}

func TestGTimeLess(t *testing.T) {
	a := GTime{Week: 2243, Sec: 10}
	b := GTime{Week: 2243, Sec: 10.4}
	assert.True(t, a.Less(b, false))
	assert.False(t, a.Less(b, true)) // both round to 10
	assert.True(t, a.Less(GTime{Week: 2244, Sec: 0}, false))
}

func TestGTimeDivisible(t *testing.T) {
	gt := GTime{Week: 2243, Sec: 30}
	assert.True(t, gt.Divisible(30))
	assert.True(t, gt.Divisible(10))
	assert.False(t, gt.Divisible(7))
}

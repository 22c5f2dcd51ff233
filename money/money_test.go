// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString_RoundTrip(t *testing.T) {
	cases := []string{"0.0000", "1.5000", "2.0000", "-9.0001", "10.1234"}
	for _, s := range cases {
		m, err := ParseString(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}
}

func TestParseString_BankersRounding(t *testing.T) {
	cases := map[string]string{
		"1.00005": "1.0000",
		"1.00015": "1.0002",
		"1.99995": "2.0000",
		"1.00025": "1.0002",
		"1.00035": "1.0004",
	}
	for in, want := range cases {
		m, err := ParseString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, m.String(), in)
	}
}

func TestParseString_Errors(t *testing.T) {
	cases := []string{"", "abc", "1.2.3", "1-2", "--1", "1.2a"}
	for _, s := range cases {
		_, err := ParseString(s)
		assert.ErrorIs(t, err, ErrInvalidFormat, s)
	}
}

func TestParseString_NoSignAndMissingParts(t *testing.T) {
	m, err := ParseString(".5")
	require.NoError(t, err)
	assert.Equal(t, "0.5000", m.String())

	m, err = ParseString("5.")
	require.NoError(t, err)
	assert.Equal(t, "5.0000", m.String())

	m, err = ParseString("  3.14  ")
	require.NoError(t, err)
	assert.Equal(t, "3.1400", m.String())
}

func TestCheckedAddSub(t *testing.T) {
	a, _ := ParseString("10.0000")
	b, _ := ParseString("4.5000")

	sum, err := a.CheckedAdd(b)
	require.NoError(t, err)
	assert.Equal(t, "14.5000", sum.String())

	diff, err := a.CheckedSub(b)
	require.NoError(t, err)
	assert.Equal(t, "5.5000", diff.String())

	neg, err := b.CheckedSub(a)
	require.NoError(t, err)
	assert.Equal(t, "-5.5000", neg.String())
}

func TestCheckedAdd_Overflow(t *testing.T) {
	max := FromScaled(1<<63 - 1)
	one := FromScaled(1)
	_, err := max.CheckedAdd(one)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCheckedSub_Overflow(t *testing.T) {
	min := FromScaled(-(1<<63 - 1) - 1)
	one := FromScaled(1)
	_, err := min.CheckedSub(one)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestComparisons(t *testing.T) {
	a, _ := ParseString("1.0000")
	b, _ := ParseString("2.0000")
	assert.True(t, a.LessThan(b))
	assert.False(t, b.LessThan(a))
	assert.True(t, b.GreaterThanOrEqual(a))
	assert.True(t, a.GreaterThanOrEqual(a))
	assert.True(t, a.Equal(FromScaled(10000)))

	diff, err := a.CheckedSub(b)
	require.NoError(t, err)
	assert.Equal(t, -1, diff.Sign())
}

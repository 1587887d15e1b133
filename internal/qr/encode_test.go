package qr

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSmallestVersion(t *testing.T) {
	sym, err := Encode("hello", LevelL)
	require.NoError(t, err)
	assert.Equal(t, 1, sym.Version)
	assert.Equal(t, 21, sym.Dimension)
	assert.Equal(t, "hello", sym.Payload)

	// Finder corner is dark, its separator light.
	assert.True(t, sym.Dark(0, 0))
	assert.True(t, sym.Dark(3, 3))
	assert.False(t, sym.Dark(7, 0))
	assert.False(t, sym.Dark(-1, 0))
	assert.False(t, sym.Dark(0, 21))
}

func TestEncodeCapacity(t *testing.T) {
	modes := []struct {
		name  string
		char  string
		limit func(MaxCapacity) int
	}{
		{name: "byte", char: "a", limit: func(c MaxCapacity) int { return c.Byte }},
		{name: "numeric", char: "1", limit: func(c MaxCapacity) int { return c.Numeric }},
		{name: "alphanumeric", char: "A", limit: func(c MaxCapacity) int { return c.Alphanumeric }},
	}
	for _, l := range []ErrorCorrection{LevelL, LevelM, LevelQ, LevelH} {
		for _, m := range modes {
			t.Run(l.String()+"/"+m.name, func(t *testing.T) {
				n := m.limit(CapacityFor(l))

				sym, err := Encode(strings.Repeat(m.char, n), l)
				require.NoError(t, err)
				assert.Equal(t, 40, sym.Version)
				assert.Equal(t, 177, sym.Dimension)

				_, err = Encode(strings.Repeat(m.char, n+1), l)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrEncodingCapacityExceeded)

				var capErr *CapacityError
				require.True(t, errors.As(err, &capErr))
				assert.Equal(t, l, capErr.Level)
				assert.Equal(t, n+1, capErr.PayloadLen)
				assert.NotEmpty(t, capErr.Remedy)
				assert.True(t, IsUserError(err))
			})
		}
	}
}

func TestEncodeMatrixDecodes(t *testing.T) {
	card := ContactCard{FieldName: "Zhang San", FieldTel: "138-0000-0000", FieldEmail: "zs@example.com"}
	payloads := map[string]string{
		"url":     "https://example.com/path?q=1",
		"numeric": strings.Repeat("0123456789", 30),
		"long":    "https://example.com/" + strings.Repeat("segment/", 100),
	}
	for name, cfg := range map[string]GenerationConfig{
		"text":    NewConfig(WithText("hello world 你好")),
		"contact": NewConfig(WithContact(card)),
	} {
		p, err := Payload(cfg)
		require.NoError(t, err)
		payloads[name] = p
	}

	for _, l := range []ErrorCorrection{LevelL, LevelM, LevelQ, LevelH} {
		for name, want := range payloads {
			t.Run(l.String()+"/"+name, func(t *testing.T) {
				sym, err := Encode(want, l)
				require.NoError(t, err)
				assert.Equal(t, want, decodeMatrix(t, sym))
			})
		}
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	_, err := Encode("", LevelH)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCapacityTable(t *testing.T) {
	assert.Equal(t, MaxCapacity{Numeric: 7089, Alphanumeric: 4296, Byte: 2953}, CapacityFor(LevelL))
	assert.Equal(t, MaxCapacity{Numeric: 3057, Alphanumeric: 1852, Byte: 1273}, CapacityFor(LevelH))
	assert.Equal(t, CapacityFor(LevelH), CapacityFor(ErrorCorrection(9)))
}

func TestParseErrorCorrection(t *testing.T) {
	for in, want := range map[string]ErrorCorrection{"l": LevelL, "M": LevelM, "quartile": LevelQ, "": LevelH, "high": LevelH} {
		got, err := ParseErrorCorrection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseErrorCorrection("X")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 30, LevelH.RecoverablePercent())
	assert.Equal(t, 7, LevelL.RecoverablePercent())
}

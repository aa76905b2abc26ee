package games

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cs2.exe", "cs2.exe"},
		{"VALORANT.exe", "valorant.exe"},
		{`"League of Legends.exe"`, "league of legends.exe"},
		{`C:\Riot Games\VALORANT\live\VALORANT.exe`, "valorant.exe"},
		{"/usr/bin/Steam", "steam"},
		{"  spaced.exe  ", "spaced.exe"},
		{"", ""},
		{`""`, ""},
		{`C:\dir\`, ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeName(tc.input), "NormalizeName(%q)", tc.input)
	}
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot("A.exe", "a.exe", "", "  ", `"b.exe"`)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a.exe"))
	assert.True(t, s.Contains("b.exe"))
	assert.False(t, s.Contains("A.exe"))

	var zero Snapshot
	assert.Equal(t, 0, zero.Len())
	assert.False(t, zero.Contains("a.exe"))
}

func TestProcessList_Capture(t *testing.T) {
	ctx := context.Background()

	p := &ProcessList{listNames: func(context.Context) ([]string, error) {
		return []string{"System", "VALORANT-Win64-Shipping.exe", ""}, nil
	}}
	s := p.Capture(ctx)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("valorant-win64-shipping.exe"))

	failing := &ProcessList{listNames: func(context.Context) ([]string, error) {
		return nil, errors.New("access denied")
	}}
	assert.Equal(t, 0, failing.Capture(ctx).Len())
}

type staticProvider []string

func (p staticProvider) Capture(context.Context) Snapshot {
	return NewSnapshot(p...)
}

func TestDetector_Detect(t *testing.T) {
	ctx := context.Background()

	d := NewDetector(staticProvider{"explorer.exe", "cs2.exe"}, DefaultProfiles())
	assert.Equal(t, ID("cs2"), d.Detect(ctx))

	custom := Profiles{{ID: "osu", Processes: []string{"OSU!.EXE"}}}
	d = NewDetector(staticProvider{"osu!.exe"}, custom)
	assert.Equal(t, ID("osu"), d.Detect(ctx))
	assert.Equal(t, []string{"osu!.exe"}, d.Profiles()[0].Processes)

	d = NewDetector(staticProvider{}, DefaultProfiles())
	assert.Equal(t, None, d.Detect(ctx))
}

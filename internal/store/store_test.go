package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/table"
	"github.com/stretchr/testify/assert"
)

func smallTable(t *testing.T) *table.Table {
	t.Helper()
	var g grammar.Grammar
	g.AddTerm("PLUS", 1)
	g.AddTerm("NUM", 0)
	g.AddProduction("E", []string{"E", "PLUS", "E"}, 0, false, grammar.AssocLeft, false, false)
	g.AddProduction("E", []string{"NUM"}, 0, false, grammar.AssocNone, false, false)
	g.SetStart("E")

	tbl, err := table.Build(&g, table.Options{Mode: table.ModeLALR})
	assert.NoError(t, err)
	return tbl
}

func Test_Checksum_IsDeterministic(t *testing.T) {
	a := Checksum("E = E '+' E | number;")
	b := Checksum("E = E '+' E | number;")
	assert.Equal(t, a, b)
}

func Test_Checksum_DiffersOnDifferentInput(t *testing.T) {
	a := Checksum("E = E '+' E | number;")
	b := Checksum("E = E '*' E | number;")
	assert.NotEqual(t, a, b)
}

func Test_Checksum_IsHexEncoded(t *testing.T) {
	sum := Checksum("anything")
	assert.Len(t, sum, 64)
	for _, r := range sum {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'))
	}
}

func Test_ToBlob_Attach_RoundTripsActionsAndGoto(t *testing.T) {
	tbl := smallTable(t)
	blob := ToBlob("somehash", table.ModeLALR, tbl)

	reattached := blob.Attach(tbl.Grammar)
	assert.Equal(t, tbl.Start, reattached.Start)

	for state, byTerm := range tbl.Action {
		for term, actions := range byTerm {
			assert.Equal(t, actions, reattached.ActionsFor(state, term))
		}
	}
	for state, byNT := range tbl.Goto {
		for nt, target := range byNT {
			got, ok := reattached.GotoFor(state, nt)
			assert.True(t, ok)
			assert.Equal(t, target, got)
		}
	}
}

func Test_Store_PutGet_RoundTrips(t *testing.T) {
	tbl := smallTable(t)
	checksum := Checksum("E = E '+' E | number;")
	blob := ToBlob(checksum, table.ModeLALR, tbl)

	dbPath := filepath.Join(t.TempDir(), "tables.db")
	s, err := Open(dbPath)
	assert.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Put(context.Background(), blob))

	got, found, err := s.Get(context.Background(), checksum)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, blob.GrammarChecksum, got.GrammarChecksum)
	assert.Equal(t, blob.Start, got.Start)
	assert.Equal(t, blob.Mode, got.Mode)
}

func Test_Store_Get_MissingReturnsFalse(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tables.db")
	s, err := Open(dbPath)
	assert.NoError(t, err)
	defer s.Close()

	_, found, err := s.Get(context.Background(), "nonexistent")
	assert.NoError(t, err)
	assert.False(t, found)
}

func Test_Store_Put_OverwritesExistingChecksum(t *testing.T) {
	tbl := smallTable(t)
	checksum := Checksum("E = E '+' E | number;")

	dbPath := filepath.Join(t.TempDir(), "tables.db")
	s, err := Open(dbPath)
	assert.NoError(t, err)
	defer s.Close()

	first := ToBlob(checksum, table.ModeLALR, tbl)
	assert.NoError(t, s.Put(context.Background(), first))

	second := ToBlob(checksum, table.ModeSLR, tbl)
	assert.NoError(t, s.Put(context.Background(), second))

	got, found, err := s.Get(context.Background(), checksum)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint8(table.ModeSLR), got.Mode)
}

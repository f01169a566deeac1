package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/riddler/internal/config"
	"github.com/robalobadob/riddler/internal/controller"
	"github.com/robalobadob/riddler/internal/game"
	"github.com/robalobadob/riddler/internal/records"
	"github.com/robalobadob/riddler/internal/store"
)

func offlineConfig(t *testing.T) config.Config {
	t.Helper()
	c := config.Default()
	c.Provider = config.ProviderScripted
	c.SaveFile = filepath.Join(t.TempDir(), "save.json")
	c.RecordsDB = filepath.Join(t.TempDir(), "records.db")
	require.NoError(t, c.Validate())
	return c
}

func TestNewApp_OfflineGameIsRecorded(t *testing.T) {
	ctx := context.Background()
	c := offlineConfig(t)
	a, err := newApp(ctx, c, store.NewFile(c.SaveFile))
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.ledger)

	for _, in := range []controller.Intent{
		controller.Start(), controller.ChooseDifficulty(0), controller.Answer("a keyboard"),
	} {
		_, err := a.ctrl.Dispatch(ctx, in)
		require.NoError(t, err)
	}
	require.Equal(t, controller.StatePlayAgain, a.ctrl.State())

	top, err := a.ledger.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, 10, top[0].Points)
}

func TestNewApp_RecordsOff(t *testing.T) {
	c := offlineConfig(t)
	c.RecordsDB = config.RecordsOff
	a, err := newApp(context.Background(), c, store.NewMemory())
	require.NoError(t, err)
	require.Nil(t, a.ledger)
	require.NoError(t, a.Close())
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	printRecords(&buf, nil, 0)
	require.Contains(t, buf.String(), "No riddles solved yet.")

	buf.Reset()
	printRecords(&buf, []records.Record{
		{Points: 50, Difficulty: game.Hard, Attempts: 1, SolvedAt: time.Now()},
	}, 50)
	require.Contains(t, buf.String(), "hard")
	require.Contains(t, buf.String(), "Total points: 50")
}

package ops

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/stretchr/testify/require"
)

// TestFullWorkflow exercises a client through the pipeline:
// add → contact → propose → close → pay → export → re-import → delete → fetch (not found)
func TestFullWorkflow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEADBOOK_HOME", "")
	repo, clock := newTestRepo(t)
	ctx := context.Background()
	cfg := config.DefaultConfig()

	// 1. Add
	added, err := Add(ctx, repo, AddInput{Name: "Pizza Place", WhatsApp: "11 98888-7777"})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	id := added.ID

	// 2. Move through the pipeline
	for _, status := range []string{"contacted", "responded", "proposal_sent", "closed"} {
		clock.Advance(time.Hour)
		out, err := SetStatus(ctx, repo, SetStatusInput{Name: "Pizza Place", Status: status})
		require.NoError(t, err)
		require.Equal(t, id, out.ID)
		require.True(t, out.UpdatedAt.Equal(clock.Now()))
	}

	// 3. Payment and value
	_, err = SetPayment(ctx, repo, SetPaymentInput{ID: id, Method: "PIX"})
	require.NoError(t, err)
	_, err = Update(ctx, repo, UpdateInput{ID: id, Value: floatPtr(750)})
	require.NoError(t, err)

	stats := Stats(repo)
	require.Equal(t, 1, stats.Closed)
	require.Equal(t, "R$ 750,00", stats.RevenueBRL)

	// 4. Export, then re-import the same file
	exported, err := Export(ctx, repo, cfg, ExportInput{})
	require.NoError(t, err)
	require.Equal(t, 1, exported.Count)
	require.Equal(t, "clientes-ifood-2025-03-10.xlsx", filepath.Base(exported.Path))

	imported, err := Import(ctx, repo, cfg, ImportInput{Path: exported.Path})
	require.NoError(t, err)
	require.Equal(t, 0, imported.Inserted)
	require.Equal(t, 1, imported.Updated)

	fetched, err := Fetch(repo, cfg, FetchInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, client.StatusClosed, fetched.Status)
	require.Equal(t, "PIX", fetched.PaymentMethod)
	// value is not part of the export, so the re-import drops it
	require.Nil(t, fetched.Value)
	require.True(t, fetched.CreatedAt.Equal(testNow))

	// 5. Delete
	deleted, err := Delete(ctx, repo, DeleteInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, id, deleted.ID)

	// 6. Fetch - verify 404
	_, err = Fetch(repo, cfg, FetchInput{ID: id})
	require.Error(t, err)
	var leadErr *errors.Error
	require.ErrorAs(t, err, &leadErr)
	require.Equal(t, errors.ErrNotFound, leadErr.Code)
}

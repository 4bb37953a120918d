package dispatch_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cajero-dev/cajero/internal/classify"
	"github.com/cajero-dev/cajero/internal/dispatch"
)

func sampleSet() *classify.OperationSet {
	return &classify.OperationSet{
		IDTask:       "203_30052025_50_ABCDEF",
		CreationDate: "2025-06-01T12:00:00Z",
		NumOps:       1,
		Liquido:      50,
		Operaciones: []classify.Operation{{
			Tipo: classify.TipoArqueo,
			Detalle: &classify.ArqueoDetail{
				Fecha:   "30052025",
				Caja:    "203",
				Tercero: "43000000M",
				Final:   []classify.BudgetLine{{Partida: "399", Importe: 50}, {Partida: "Total"}},
			},
		}},
	}
}

func TestSend_PostsJSONWithToken(t *testing.T) {
	var (
		gotAuth    string
		gotPayload map[string]any
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := dispatch.NewService(srv.URL, "secret", time.Second, slog.Default())

	err := svc.Send(context.Background(), sampleSet())
	require.NoError(t, err)

	assert.Equal(t, "Token secret", gotAuth)
	assert.Equal(t, "203_30052025_50_ABCDEF", gotPayload["id_task"])
	assert.EqualValues(t, 1, gotPayload["num_operaciones"])
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := dispatch.NewService(srv.URL, "", time.Second, slog.Default())

	err := svc.Send(context.Background(), sampleSet())
	assert.ErrorContains(t, err, "503")
}

func TestSend_NotConfigured(t *testing.T) {
	svc := dispatch.NewService("", "", time.Second, slog.Default())

	assert.False(t, svc.Enabled())
	assert.Error(t, svc.Send(context.Background(), sampleSet()))
}

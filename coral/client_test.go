package coral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentmarketplace/marketplace"
)

// fakeCoralServer implements enough of the Coral HTTP surface for the
// client and integration tests.
func fakeCoralServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var messages []string

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		var cfg map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cfg))
		assert.Equal(t, "app", cfg["applicationId"])
		assert.Contains(t, cfg, "agentGraph")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sessionId": "sess-1"})
	})
	mux.HandleFunc("/sessions/sess-1/threads", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"threads": []map[string]any{{"threadId": "thr-1"}},
			})
			return
		}
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, strings.HasPrefix(body["name"], "marketplace_thread_"))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"threadId": "thr-1"})
	})
	mux.HandleFunc("/sessions/sess-1/threads/thr-1/messages", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		messages = append(messages, body["message"])
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/sessions/sess-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "active"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &messages
}

func TestClientSessionLifecycle(t *testing.T) {
	srv, _ := fakeCoralServer(t)
	client := NewClient(srv.URL, "http://localhost:8000", nil)
	ctx := context.Background()

	require.NoError(t, client.Health(ctx))

	sessionID, err := client.CreateSession(ctx, "app", "priv")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sessionID)
	assert.Equal(t, "sess-1", client.SessionID())

	threadID, err := client.CreateThread(ctx)
	require.NoError(t, err)
	assert.Equal(t, "thr-1", threadID)

	require.NoError(t, client.SendMessage(ctx, threadID, "hello"))

	status, err := client.SessionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "active", status["status"])

	threads, err := client.ListThreads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 1)
}

func TestClientRequiresSession(t *testing.T) {
	client := NewClient("http://localhost:5555", "http://localhost:8000", nil)
	ctx := context.Background()

	_, err := client.CreateThread(ctx)
	assert.ErrorContains(t, err, "no active coral session")
	err = client.SendMessage(ctx, "thr", "msg")
	assert.ErrorContains(t, err, "no active coral session")
}

func newTestMarketplace() *marketplace.Marketplace {
	catalog := marketplace.NewCatalog(marketplace.BuiltinCatalog())
	payments := marketplace.NewPaymentProcessor(180.0, 0.25)
	return marketplace.NewMarketplace(catalog, payments, nil, nil)
}

// recordingStore snapshots, per SaveWorkflow call, whether every step
// result carried a Coral annotation at the moment it was persisted.
type recordingStore struct {
	annotatedSaves []bool
}

func (s *recordingStore) SaveWorkflow(ctx context.Context, w *marketplace.Workflow) error {
	annotated := len(w.Results) > 0
	for _, r := range w.Results {
		if r.CoralProtocol == nil {
			annotated = false
		}
	}
	s.annotatedSaves = append(s.annotatedSaves, annotated)
	return nil
}

func (s *recordingStore) ListWorkflows(ctx context.Context) ([]*marketplace.Workflow, error) {
	return nil, nil
}

func (s *recordingStore) SaveTransaction(ctx context.Context, tx *marketplace.Transaction) error {
	return nil
}

func (s *recordingStore) ListTransactions(ctx context.Context) ([]*marketplace.Transaction, error) {
	return nil, nil
}

func TestIntegrationStandaloneFallback(t *testing.T) {
	// Unreachable server: port 1 on localhost refuses connections.
	client := NewClient("http://127.0.0.1:1", "http://localhost:8000", nil)
	integration := NewIntegration(client, newTestMarketplace(), "app", "priv", nil)

	require.NoError(t, integration.Initialize(context.Background()))
	assert.Equal(t, ModeStandalone, integration.Mode())

	status := integration.Status()
	assert.False(t, status.Connected)
	assert.Equal(t, "Coral v1.0", status.ProtocolVersion)

	// Workflows still execute directly.
	w, err := integration.ExecuteWorkflow(context.Background(), "q",
		[]string{marketplace.StepSearch}, "demo_wallet_123", "")
	require.NoError(t, err)
	assert.Nil(t, w.Results[marketplace.StepSearch].CoralProtocol)
}

func TestIntegrationCoralMode(t *testing.T) {
	srv, messages := fakeCoralServer(t)
	client := NewClient(srv.URL, "http://localhost:8000", nil)
	integration := NewIntegration(client, newTestMarketplace(), "app", "priv", nil)

	require.NoError(t, integration.Initialize(context.Background()))
	require.Equal(t, ModeCoral, integration.Mode())
	assert.True(t, integration.Status().Connected)

	w, err := integration.ExecuteWorkflow(context.Background(), "AI trends",
		[]string{marketplace.StepSearch, marketplace.StepContent}, "demo_wallet_123", "user-1")
	require.NoError(t, err)

	// Both the announcement and the completion message went out.
	require.Len(t, *messages, 2)
	assert.Contains(t, (*messages)[0], "AI trends")
	assert.Contains(t, (*messages)[1], "completed")

	searchResult := w.Results[marketplace.StepSearch]
	require.NotNil(t, searchResult.CoralProtocol)
	assert.True(t, searchResult.CoralProtocol.Enabled)
	assert.Equal(t, "sess-1", searchResult.CoralProtocol.SessionID)
	assert.Equal(t, "thr-1", searchResult.CoralProtocol.ThreadID)
	assert.Equal(t, "Coral Protocol orchestrated", searchResult.CoralProtocol.AgentCoordination)
	assert.Equal(t, "Coral v1.0", searchResult.CoralProtocol.ProtocolVersion)
	assert.Equal(t, []string{
		"Cross-agent communication via Coral",
		"Persistent session management",
		"Real-time thread monitoring",
		"Protocol-standard agent discovery",
	}, searchResult.CoralProtocol.EnhancedCapabilities)

	// 0.94 search confidence gets the Coral bump, capped at 1.0.
	assert.InDelta(t, 0.99, searchResult.EnhancedConfidence, 1e-9)

	// The content step has no confidence score, so no bump.
	contentResult := w.Results[marketplace.StepContent]
	require.NotNil(t, contentResult.CoralProtocol)
	assert.Zero(t, contentResult.EnhancedConfidence)
}

func TestCoralModePersistsAnnotatedWorkflow(t *testing.T) {
	srv, _ := fakeCoralServer(t)
	client := NewClient(srv.URL, "http://localhost:8000", nil)

	store := &recordingStore{}
	catalog := marketplace.NewCatalog(marketplace.BuiltinCatalog())
	payments := marketplace.NewPaymentProcessor(180.0, 0.25)
	mp := marketplace.NewMarketplace(catalog, payments, store, nil)

	integration := NewIntegration(client, mp, "app", "priv", nil)
	require.NoError(t, integration.Initialize(context.Background()))
	require.Equal(t, ModeCoral, integration.Mode())

	_, err := integration.ExecuteWorkflow(context.Background(), "AI trends",
		[]string{marketplace.StepSearch}, "demo_wallet_123", "user-1")
	require.NoError(t, err)

	// The final persisted record carries the Coral annotation.
	require.NotEmpty(t, store.annotatedSaves)
	assert.True(t, store.annotatedSaves[len(store.annotatedSaves)-1])
}

func TestConfidenceBonusCap(t *testing.T) {
	srv, _ := fakeCoralServer(t)
	client := NewClient(srv.URL, "http://localhost:8000", nil)
	integration := NewIntegration(client, newTestMarketplace(), "app", "priv", nil)
	require.NoError(t, integration.Initialize(context.Background()))

	w := &marketplace.Workflow{
		Results: map[string]*marketplace.StepResult{
			"search": {ConfidenceScore: 0.98},
		},
	}
	integration.annotate(w, "thr-1")
	assert.Equal(t, 1.0, w.Results["search"].EnhancedConfidence)
}

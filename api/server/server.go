// Package server wires the marketplace together and serves the HTTP
// API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"agentmarketplace/agents"
	"agentmarketplace/agents/search"
	"agentmarketplace/agents/summarizer"
	"agentmarketplace/agents/validator"
	"agentmarketplace/api/handlers"
	"agentmarketplace/coral"
	"agentmarketplace/internal/config"
	"agentmarketplace/internal/store"
	"agentmarketplace/llm"
	"agentmarketplace/llm/openai"
	"agentmarketplace/llm/shared"
	"agentmarketplace/marketplace"
	"agentmarketplace/pipeline"
	"agentmarketplace/web"
)

// Server is the marketplace HTTP server with all services wired.
type Server struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	handler http.Handler

	store        *store.Store
	llms         *llm.Registry
	agents       *agents.Registry
	orchestrator *pipeline.Orchestrator
	marketplace  *marketplace.Marketplace
	integration  *coral.Integration

	version   string
	listeners []net.Listener
}

// New builds the full service: storage, agents, marketplace, Coral
// integration, and HTTP routes.
func New(cfg *config.Config, version string, logger *zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		version: version,
	}

	st, err := store.Open(cfg.DataDir, store.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	s.store = st

	s.llms = llm.NewRegistry()
	var provider shared.LLMProvider
	if cfg.OpenAIAPIKey != "" {
		p, err := openai.NewProvider(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		s.llms.Register(p)
		provider = p
	}

	s.agents = agents.NewRegistry(logger)
	s.agents.Register(search.NewSearchAgent(search.Options{
		Live:    cfg.LiveSearch,
		Sources: cfg.SearchSources,
		Timeout: cfg.SearchTimeout,
	}))
	s.agents.Register(summarizer.NewSummarizerAgent(provider, cfg.Model))
	s.agents.Register(validator.NewValidatorAgent())

	s.orchestrator = pipeline.NewOrchestrator(s.agents, st, logger)

	catalog := marketplace.NewCatalog(marketplace.BuiltinCatalog())
	payments := marketplace.NewPaymentProcessor(cfg.SOLPriceUSD, cfg.PlatformFee)
	s.marketplace = marketplace.NewMarketplace(catalog, payments, st, logger)

	coralClient := coral.NewClient(cfg.CoralServerURL, selfURL(cfg.Address), logger)
	s.integration = coral.NewIntegration(coralClient, s.marketplace, cfg.CoralApplicationID, cfg.CoralPrivacyKey, logger)

	s.handler = s.routes()
	if err := s.setupListeners(cfg.Address); err != nil {
		_ = st.Close()
		return nil, err
	}
	return s, nil
}

// selfURL derives the URL Coral agents use to call back into this
// server from the listen address.
func selfURL(address string) string {
	if strings.HasPrefix(address, ":") {
		return "http://localhost" + address
	}
	return "http://" + address
}

// routes builds the HTTP mux with CORS and logging middleware.
func (s *Server) routes() http.Handler {
	researchHandler := handlers.NewResearchHandler(s.orchestrator)
	marketplaceHandler := handlers.NewMarketplaceHandler(s.marketplace)
	workflowHandler := handlers.NewWorkflowHandler(s.integration, s.marketplace)
	coralHandler := handlers.NewCoralHandler(s.integration, s.marketplace)
	healthHandler := handlers.NewHealthHandler(s.agents, s.integration, s.version)

	mux := http.NewServeMux()

	mux.HandleFunc("/", web.Index)
	mux.HandleFunc("/health", healthHandler.Health)

	mux.HandleFunc("/api/research", researchHandler.SubmitResearch)
	mux.HandleFunc("/api/results", researchHandler.ListResults)

	mux.HandleFunc("/api/agents", marketplaceHandler.ListAgents)
	mux.HandleFunc("/api/agents/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/details") {
			marketplaceHandler.AgentDetails(w, r)
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/api/marketplace/stats", marketplaceHandler.Stats)
	mux.HandleFunc("/api/transactions", marketplaceHandler.Transactions)
	mux.HandleFunc("/api/payment/create", marketplaceHandler.CreatePayment)

	mux.HandleFunc("/api/workflow/execute", workflowHandler.Execute)
	mux.HandleFunc("/api/workflow/", workflowHandler.Get)
	mux.HandleFunc("/api/demo/quick-workflow", workflowHandler.QuickDemo)

	mux.HandleFunc("/api/coral/status", coralHandler.Status)
	mux.HandleFunc("/api/coral/discover-agents", coralHandler.DiscoverAgents)
	mux.HandleFunc("/api/coral/execute-workflow", coralHandler.ExecuteWorkflowTool)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	// Logging middleware
	loggingHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}

	return corsHandler(loggingHandler(mux))
}

// setupListeners creates IPv4 and IPv6 loopback listeners.
func (s *Server) setupListeners(address string) error {
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	ipv4, err := net.Listen("tcp4", "127.0.0.1:"+port)
	if err != nil {
		return fmt.Errorf("failed to create IPv4 listener: %w", err)
	}
	s.listeners = append(s.listeners, ipv4)

	ipv6, err := net.Listen("tcp6", "[::1]:"+port)
	if err != nil {
		s.logger.Warn().Err(err).Msg("IPv6 bind failed, continuing with IPv4 only")
	} else {
		s.listeners = append(s.listeners, ipv6)
	}
	return nil
}

// Handler returns the assembled HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the address of the first listener.
func (s *Server) Addr() string {
	if len(s.listeners) == 0 {
		return ""
	}
	return s.listeners[0].Addr().String()
}

// Start connects the Coral integration and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if len(s.listeners) == 0 {
		return fmt.Errorf("no listeners configured")
	}

	// Standalone fallback means this never fails the startup.
	if err := s.integration.Initialize(ctx); err != nil {
		return fmt.Errorf("coral integration: %w", err)
	}

	s.logger.Info().
		Str("address", s.Addr()).
		Str("coral_mode", s.integration.Mode()).
		Int("agents", s.agents.Len()).
		Msg("marketplace server starting")

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range s.listeners {
		l := l
		g.Go(func() error {
			if err := httpServer.Serve(l); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("listener %s: %w", l.Addr(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()

	s.orchestrator.Wait()
	if closeErr := s.store.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	s.logger.Info().Msg("server exited")
	return err
}

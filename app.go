package vidtube

import (
	"context"
	"log/slog"

	"vidtube/api"
	"vidtube/config"
	"vidtube/http"
	"vidtube/internal/logging"
	"vidtube/internal/retry"
	"vidtube/session"
	"vidtube/storage"
	"vidtube/store"
)

// App wires the whole client together: transport, gateway, typed API,
// session manager, and the state stores, with session lifecycle events
// connected to store resets.
type App struct {
	Config *config.Config

	API           *api.Client
	Session       *session.Manager
	Catalog       *store.Catalog
	Interactions  *store.Interactions
	Subscriptions *store.Subscriptions
	Comments      *store.Comments

	client *http.Client
	creds  *storage.FileCredentialStore
	logger *slog.Logger
}

// New assembles a client from configuration. The credential file is locked
// for the App's lifetime; call Close when done.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpCfg := http.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout
	client := http.New(httpCfg)

	gw := http.NewGateway(client, cfg.BaseURL, logging.WithComponent(logger, "gateway"))
	apiClient := api.New(gw, retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: 0.2,
	})

	creds, err := storage.NewFileCredentialStore(cfg.CredentialsPath)
	if err != nil {
		client.Close()
		return nil, err
	}

	sess := session.NewManager(creds, apiClient, logging.WithComponent(logger, "session"))
	gw.BindSession(sess)

	catalog := store.NewCatalog(apiClient, logging.WithComponent(logger, "catalog"))
	interactions := store.NewInteractions(apiClient, sess, catalog, logging.WithComponent(logger, "interactions"))
	subscriptions := store.NewSubscriptions(apiClient, sess, catalog, logging.WithComponent(logger, "subscriptions"))
	comments := store.NewComments(apiClient, sess, logging.WithComponent(logger, "comments"))

	app := &App{
		Config:        cfg,
		API:           apiClient,
		Session:       sess,
		Catalog:       catalog,
		Interactions:  interactions,
		Subscriptions: subscriptions,
		Comments:      comments,
		client:        client,
		creds:         creds,
		logger:        logger,
	}

	sess.Subscribe(func(ev session.Event) {
		switch ev {
		case session.EventLogin:
			// Populate the subscription set for the new identity. Runs
			// outside the listener so it can issue requests.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
				defer cancel()
				if err := subscriptions.Refresh(ctx); err != nil {
					logger.Warn("subscription refresh after login failed", "err", err)
				}
			}()
		case session.EventLogout, session.EventExpired:
			interactions.Reset()
			subscriptions.Reset()
			comments.Reset()
		}
	})

	return app, nil
}

// Restore loads persisted credentials and verifies them against the backend.
// On any verification failure the client starts anonymous.
func (a *App) Restore(ctx context.Context) error {
	return a.Session.Restore(ctx)
}

// Close releases the credential file lock and transport resources.
func (a *App) Close() error {
	err := a.creds.Close()
	if cerr := a.client.Close(); err == nil {
		err = cerr
	}
	return err
}

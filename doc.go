// Package vidtube is a client-side synchronization engine for a video
// sharing backend.
//
// It keeps local state (video catalog, reactions, subscriptions, comments,
// session) consistent with an opaque REST server: reads replace local state
// wholesale, mutations apply optimistically and reconcile against the
// server's authoritative response, and any 401 invalidates the session
// globally.
//
// Quick Start
//
// Wire everything with App:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	app, err := vidtube.New(cfg, slog.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer app.Close()
//
//	ctx := context.Background()
//	if err := app.Restore(ctx); err != nil {
//		log.Fatal(err)
//	}
//	videos, err := app.Catalog.LoadList(ctx, "")
//
// Log in and react to a video:
//
//	if _, err := app.Session.Login(ctx, "alice", "secret"); err != nil {
//		log.Fatal(err)
//	}
//	if err := app.Interactions.ToggleLike(ctx, videos[0].ID); err != nil {
//		log.Fatal(err)
//	}
//
// Configuration
//
// vidtube loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (vidtube.json or ~/.config/vidtube/vidtube.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - VIDTUBE_BASE_URL: Backend API base URL
//   - VIDTUBE_TIMEOUT: Per-request timeout
//   - VIDTUBE_CREDENTIALS_PATH: Persisted credential file location
//   - VIDTUBE_MAX_RETRIES: Maximum retry attempts for list reads
//   - VIDTUBE_INITIAL_BACKOFF: Initial retry backoff duration
//   - VIDTUBE_MAX_BACKOFF: Maximum retry backoff duration
//   - VIDTUBE_LOG_LEVEL: debug, info, warn, or error
//   - VIDTUBE_LOG_FORMAT: text or json
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, vidtube.ErrAuthRequired) {
//		fmt.Println("log in first")
//	}
//
//	var apiErr *vidtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Println(apiErr.Message)
//	}
//
// Session expiry is handled transparently: on any 401 the session is
// destroyed, dependent stores reset, and the failing call returns an error
// wrapping ErrSessionExpired.
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - api: Typed endpoint wrappers
//   - http: Transport, request gateway, and error taxonomy
//   - session: Session lifecycle and credential persistence
//   - store: Catalog, reaction, subscription, and comment stores
//   - config: Configuration management
//   - storage: Persistent credential storage
package vidtube

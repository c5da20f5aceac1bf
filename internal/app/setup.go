// Package app contains the application setup for the store-management service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/config"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/service"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/store"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/transport/rest"
	"github.com/servicesdumitrustefan92-cmd/store-management/pkg/server"
	pkgconfig "github.com/servicesdumitrustefan92-cmd/store-management/pkg/config"
	"github.com/servicesdumitrustefan92-cmd/store-management/pkg/web"
)

const authRealm = "store-management"

type Dependencies struct {
	ProductService service.ProductService
	Authorizer     *web.Authorizer
	Logger         *slog.Logger
}

// SetupDependencies builds the service graph: the configured store, the
// product service on top of it, and the authorizer over the credential store.
func SetupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) *Dependencies {
	var productStore store.ProductStore
	if cfg.Store.Type == pkgconfig.StoreTypeMemory {
		productStore = store.NewMemStore()
	} else {
		productStore = store.NewPgStore(dbPool)
	}

	creds := make([]web.Credential, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		creds = append(creds, web.Credential{
			Name:     u.Name,
			Password: u.Password,
			Role:     web.Role(u.Role),
		})
	}

	return &Dependencies{
		ProductService: service.NewService(productStore),
		Authorizer:     web.NewAuthorizer(web.NewInMemoryCredentials(creds), authRealm),
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the router and routes for the service.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux, deps.Authorizer)
	return mux
}

// SetupHttpServer creates and configures the HTTP server for the service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

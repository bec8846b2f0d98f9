package di

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"zest/internal/auth"
	"zest/internal/auth/config"
	"zest/internal/catalog"
	"zest/internal/payments"
	"zest/internal/shared/logger"
)

// Container wires the modules together with proper lifecycle management.
// It is the single place holding shared handles; nothing in the modules
// reaches for globals.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule     *auth.AuthModule
	CatalogModule  *catalog.CatalogModule
	PaymentsModule *payments.PaymentsModule

	// Database connection
	DB *sql.DB

	// Configuration
	AuthConfig *config.Config

	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	return &Container{Logger: log}
}

// InitializeAuth initializes the authentication module
func (c *Container) InitializeAuth(db *sql.DB, authConfig *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.DB = db
	c.AuthConfig = authConfig

	authModule, err := auth.NewAuthModule(db, authConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeCatalog initializes the product catalog module
func (c *Container) InitializeCatalog() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.DB == nil {
		return fmt.Errorf("database must be initialized before catalog module")
	}

	c.CatalogModule = catalog.NewCatalogModule(c.DB, c.Logger)
	return nil
}

// InitializePayments initializes the payment-link module
func (c *Container) InitializePayments(stripeAPIKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before payments module")
	}

	c.PaymentsModule = payments.NewPaymentsModule(stripeAPIKey, c.Logger)
	return nil
}

// HealthCheck verifies that the shared store answers.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}
	return nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

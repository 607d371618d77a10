// Command seed-db provisions demo data: one profile and API key per role,
// plus two restaurants with small menus. Raw API keys are printed once so
// they can be used against the running server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/plateup/ordering-api/internal/domain/auth"
	"github.com/plateup/ordering-api/internal/domain/catalog"
	"github.com/plateup/ordering-api/internal/domain/identity"
	"github.com/plateup/ordering-api/internal/repository"
)

type demoAccount struct {
	principalID string
	displayName string
	role        identity.Role
}

var demoAccounts = []demoAccount{
	{principalID: "demo-admin", displayName: "Demo Admin", role: identity.RoleAdmin},
	{principalID: "demo-owner", displayName: "Demo Owner", role: identity.RoleRestaurantOwner},
	{principalID: "demo-customer", displayName: "Demo Customer", role: identity.RoleCustomer},
}

func main() {
	var (
		databaseURL  string
		apiKeyBase   string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&apiKeyBase, "api-key", "", "base for deterministic API keys (random keys when empty)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ORDERING_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ORDERING_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, apiKeyBase, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, apiKeyBase, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedAccounts(ctx, pool, apiKeyBase, pepper); err != nil {
		return errors.Wrap(err, "seed accounts")
	}

	if err := seedRestaurants(ctx, pool); err != nil {
		return errors.Wrap(err, "seed restaurants")
	}

	return nil
}

func seedAccounts(ctx context.Context, pool *pgxpool.Pool, apiKeyBase, pepper string) error {
	profiles := repository.NewProfileRepository(pool)
	apikeys := repository.NewAPIKeyRepository(pool)

	for _, acc := range demoAccounts {
		if err := profiles.Upsert(ctx, &identity.Profile{
			PrincipalID: acc.principalID,
			DisplayName: acc.displayName,
			Role:        acc.role,
		}); err != nil {
			return errors.Wrapf(err, "upsert profile %s", acc.principalID)
		}

		rawKey := uuid.New().String()
		if apiKeyBase != "" {
			rawKey = apiKeyBase + "-" + acc.principalID
		}
		if err := apikeys.Upsert(ctx, auth.APIKeyInfo{
			ID:          acc.principalID,
			KeyHash:     auth.HashKey([]byte(pepper), rawKey),
			PrincipalID: acc.principalID,
			Name:        acc.displayName,
		}); err != nil {
			return errors.Wrapf(err, "upsert api key for %s", acc.principalID)
		}

		slog.Info("seeded account",
			slog.String("principal", acc.principalID),
			slog.String("role", acc.role.String()),
			slog.String("api_key", rawKey),
		)
	}

	return nil
}

type demoMenu struct {
	restaurant catalog.Restaurant
	items      []catalog.MenuItem
}

func seedRestaurants(ctx context.Context, pool *pgxpool.Pool) error {
	restaurants := repository.NewRestaurantRepository(pool)
	menuItems := repository.NewMenuItemRepository(pool)

	menus := []demoMenu{
		{
			restaurant: catalog.Restaurant{
				OwnerID:     "demo-owner",
				Name:        "Brass Lantern",
				Description: "Seasonal small plates",
				Address:     "12 Foundry Lane",
				Phone:       "+1-555-0101",
				Active:      true,
			},
			items: []catalog.MenuItem{
				{Name: "Charred Leek Soup", Price: decimal.RequireFromString("7.50"), Available: true},
				{Name: "Smoked Trout Toast", Price: decimal.RequireFromString("11.00"), Available: true},
				{Name: "Barley Risotto", Price: decimal.RequireFromString("14.25"), Available: true},
			},
		},
		{
			restaurant: catalog.Restaurant{
				OwnerID:     "demo-owner",
				Name:        "Noon Canteen",
				Description: "Weekday lunch counter",
				Address:     "48 Harbor Street",
				Phone:       "+1-555-0102",
				Active:      true,
			},
			items: []catalog.MenuItem{
				{Name: "Flat Iron Sandwich", Price: decimal.RequireFromString("9.75"), Available: true},
				{Name: "Citrus Lentil Salad", Price: decimal.RequireFromString("8.00"), Available: true},
			},
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, menu := range menus {
		g.Go(func() error {
			r := menu.restaurant
			if err := restaurants.Create(gctx, &r); err != nil {
				return errors.Wrapf(err, "create restaurant %s", r.Name)
			}

			for _, item := range menu.items {
				item.RestaurantID = r.ID
				if err := menuItems.Create(gctx, &item); err != nil {
					return errors.Wrapf(err, "create menu item %s", item.Name)
				}
			}

			slog.Info("seeded restaurant",
				slog.String("name", r.Name),
				slog.Int64("id", r.ID),
				slog.Int("items", len(menu.items)),
			)
			return nil
		})
	}
	return g.Wait()
}

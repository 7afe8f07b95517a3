package handlers

import (
	"database/sql"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"

	"stagepass/internal/config"
	"stagepass/internal/customcat"
	"stagepass/internal/domain"
	"stagepass/internal/repos"
	"stagepass/internal/services"
)

type Deps struct {
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	PaymentHandler  *PaymentHandler
	OrderHandler    *OrderHandler
	SyncHandler     *SyncHandler
	SettingsHandler *SettingsHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)

	carts := services.NewCartManager(cartRepo)
	payments := services.NewPaymentService(cfg.StripeSecretKey)
	checkout := services.NewCheckoutService(payments, carts, orderRepo)
	sync := services.NewSyncService(prodRepo, settingsRepo, customcat.NewClient(nil))

	seedAPIKeySetting(settingsRepo, cfg)

	return &Deps{
		ProductHandler:  &ProductHandler{Prods: prodRepo},
		CartHandler:     &CartHandler{Carts: carts, Prods: prodRepo},
		CheckoutHandler: &CheckoutHandler{Checkout: checkout},
		PaymentHandler:  &PaymentHandler{Payments: payments},
		OrderHandler:    &OrderHandler{Orders: orderRepo},
		SyncHandler:     &SyncHandler{Sync: sync},
		SettingsHandler: &SettingsHandler{Settings: settingsRepo},
	}
}

// seedAPIKeySetting copies a bootstrap key from the environment into the
// settings table, without overwriting a key the operator already stored.
func seedAPIKeySetting(settings *repos.SettingsRepo, cfg config.Config) {
	if cfg.CustomCatAPIKey == "" {
		return
	}
	_, err := settings.Get(services.SettingCustomCatAPIKey)
	if errors.Is(err, sql.ErrNoRows) {
		err = settings.Set(domain.Setting{
			Key:         services.SettingCustomCatAPIKey,
			Value:       cfg.CustomCatAPIKey,
			Description: "CustomCat catalog API key (seeded from environment)",
			IsSensitive: true,
		})
	}
	if err != nil {
		log.Printf("[settings] seed CustomCat key: %v", err)
	}
}

package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"stagepass/internal/customcat"
	"stagepass/internal/domain"
	"stagepass/internal/repos"
)

const (
	// SettingCustomCatAPIKey is the settings-table key holding the API key.
	SettingCustomCatAPIKey = "CUSTOMCAT_API_KEY"

	// SourceCustomCat tags catalog rows imported from CustomCat.
	SourceCustomCat = "customcat"
)

var ErrSyncNotConfigured = errors.New("CustomCat API key is not configured")

type SyncResults struct {
	Total   int      `json:"total"`
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// SyncService imports the CustomCat catalog into the products table.
// Operator-triggered; repeated runs are idempotent with respect to row count
// because records are matched by external id and updated in place.
type SyncService struct {
	Products *repos.ProductRepo
	Settings *repos.SettingsRepo
	CC       *customcat.Client
}

func NewSyncService(products *repos.ProductRepo, settings *repos.SettingsRepo, cc *customcat.Client) *SyncService {
	return &SyncService{Products: products, Settings: settings, CC: cc}
}

// Status reports whether a key is stored, without touching the network.
func (s *SyncService) Status() (bool, string) {
	key, err := s.apiKey()
	if err != nil || key == "" {
		return false, "CustomCat API key is not set"
	}
	return true, "CustomCat API key is configured"
}

func (s *SyncService) apiKey() (string, error) {
	setting, err := s.Settings.Get(SettingCustomCatAPIKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Run probes the CustomCat endpoints and upserts every well-formed record.
// A missing key fails before any network call. Malformed records are counted
// and skipped, never fatal to the batch.
func (s *SyncService) Run(ctx context.Context) (*SyncResults, error) {
	key, err := s.apiKey()
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrSyncNotConfigured
	}

	fetched, err := s.CC.FetchProducts(ctx, key)
	if err != nil {
		return nil, err
	}

	results := &SyncResults{Total: len(fetched.Products), Errors: []string{}}
	for _, rec := range fetched.Products {
		if err := s.importRecord(rec, results); err != nil {
			results.Errors = append(results.Errors, err.Error())
		}
	}
	return results, nil
}

func (s *SyncService) importRecord(rec customcat.Record, results *SyncResults) error {
	extID := rec.ExternalID()
	name := rec.DisplayName()
	if extID == "" || name == "" {
		results.Skipped++
		return nil
	}

	price := rec.RetailPriceString()
	if price == "" {
		price = "0"
	} else if _, err := decimal.NewFromString(price); err != nil {
		results.Skipped++
		return nil
	}

	metadata, err := json.Marshal(map[string]any{
		"external_id":        extID,
		"customcat_original": rec.Raw,
		"customcat_data": map[string]any{
			"product_colors": rec.ProductColors,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal metadata for %s: %w", extID, err)
	}

	existing, err := s.Products.FindByExternal(SourceCustomCat, extID)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", extID, err)
	}

	p := domain.Product{
		Name:           name,
		Description:    rec.Description,
		Category:       rec.CategoryLabel(),
		Price:          price,
		ExternalSource: SourceCustomCat,
		ExternalID:     extID,
		Metadata:       string(metadata),
	}

	if existing != nil {
		p.ID = existing.ID
		p.StockQuantity = existing.StockQuantity
		p.ImageURL, p.ThumbnailURL = customcat.ResolveImages(p.Metadata, existing.ImageURL, existing.ThumbnailURL)
		if err := s.Products.Update(&p); err != nil {
			return fmt.Errorf("update %s: %w", extID, err)
		}
		results.Updated++
		return nil
	}

	p.ImageURL, p.ThumbnailURL = customcat.ResolveImages(p.Metadata, "", "")
	if _, err := s.Products.Insert(&p); err != nil {
		return fmt.Errorf("insert %s: %w", extID, err)
	}
	results.Added++
	return nil
}

package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mbacelar/rebanho/internal/config"
	"github.com/mbacelar/rebanho/internal/domain/models"
)

const (
	migrationsRange = "Migrations!A:F"
	dateLayout      = "2006-01-02"
)

// Repository defines the bookkeeping export operations backed by Google Sheets.
type Repository interface {
	AppendMigrationResult(ctx context.Context, result models.MigrationResult) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendMigrationResult writes one row per migration detail to the
// bookkeeping spreadsheet so the exported ledger mirrors the run history.
func (r *GoogleSheetRepository) AppendMigrationResult(ctx context.Context, result models.MigrationResult) error {
	if len(result.Details) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(result.Details))
	for _, d := range result.Details {
		rows = append(rows, []interface{}{
			result.ExecutedAt.Format(dateLayout),
			d.MovementID,
			string(d.FromAgeGroup),
			string(d.ToAgeGroup),
			d.AgeInMonths,
			d.Quantity,
		})
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, migrationsRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append migration rows into range %s: %w", migrationsRange, err)
	}

	r.logger.Debug("migration rows appended to sheet",
		zap.String("run_id", result.RunID),
		zap.Int("rows", len(rows)))
	return nil
}

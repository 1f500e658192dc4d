// Package export writes monthly ledger reports to a Google Sheet, so the
// household spreadsheet stays in step with the shared ledger document.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"hisab/internal/core"
	"hisab/internal/log"
)

// SheetsExporter appends month overview rows to one sheet of a spreadsheet.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// NewSheetsExporter creates an exporter for the given spreadsheet and sheet.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string, logger *log.Logger) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Reports"
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

// ExportOverview appends one row per category plus a total row for the given
// month overview.
func (e *SheetsExporter) ExportOverview(ctx context.Context, overview core.MonthOverview) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := OverviewRows(overview)
	rng := fmt.Sprintf("%s!A:D", e.sheetName)
	vr := &gsheet.ValueRange{Values: values}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append overview to sheet %s: %w", e.sheetName, err)
	}

	e.logger.InfoContext(ctx, "Exported month overview",
		log.FieldOperation, log.OpExport,
		log.FieldYear, overview.Year,
		log.FieldMonth, int(overview.Month),
		"rows", len(values))
	return nil
}

// OverviewRows lays out an overview as spreadsheet rows:
// label, category, amount in rupees — ending with a Total row.
func OverviewRows(overview core.MonthOverview) [][]any {
	label := fmt.Sprintf("%s %d", overview.Month.String(), overview.Year)
	rows := make([][]any, 0, len(overview.ByCategory)+1)
	for _, ca := range overview.ByCategory {
		rows = append(rows, []any{label, ca.Category.String(), ca.Amount.Rupees()})
	}
	rows = append(rows, []any{label, "Total", overview.Total.Rupees()})
	return rows
}

// newSheetsService initializes a Sheets service using service account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

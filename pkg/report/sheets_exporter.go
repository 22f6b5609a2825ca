package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pettracker/pet/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrExportNotConfigured = errors.New("report export is not configured")

// ReportExporter publishes a monthly report outside the application.
type ReportExporter interface {
	Export(ctx context.Context, report MonthlyReport) (string, error)
}

// SheetsExporter writes reports into one sheet of a Google spreadsheet. Every
// export replaces the previous content of that sheet.
type SheetsExporter struct {
	service       *sheets.Service
	spreadsheetId string
	sheetName     string
}

// NewSheetsExporter builds an exporter from configuration. Without a credentials
// file the application default credentials are used.
func NewSheetsExporter(ctx context.Context, cfg config.Sheets) (*SheetsExporter, error) {
	if cfg.SpreadsheetId == "" {
		return nil, ErrExportNotConfigured
	}

	var creds *google.Credentials
	var err error
	if cfg.CredentialsFile != "" {
		data, readErr := os.ReadFile(cfg.CredentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read sheets credentials: %w", readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, sheets.SpreadsheetsScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets credentials: %w", err)
	}

	opts := []option.ClientOption{option.WithCredentials(creds)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsExporterWithService(service, cfg.SpreadsheetId, cfg.SheetName), nil
}

func NewSheetsExporterWithService(service *sheets.Service, spreadsheetId, sheetName string) *SheetsExporter {
	return &SheetsExporter{service: service, spreadsheetId: spreadsheetId, sheetName: sheetName}
}

// Export clears the sheet and writes the report into it. It returns the written range.
func (e *SheetsExporter) Export(ctx context.Context, report MonthlyReport) (string, error) {
	sheetRange := reportRange(e.sheetName)

	_, err := e.service.Spreadsheets.Values.
		Clear(e.spreadsheetId, sheetRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to clear range %s: %w", sheetRange, err)
	}

	response, err := e.service.Spreadsheets.Values.
		Update(e.spreadsheetId, sheetRange, &sheets.ValueRange{Values: sheetValues(report)}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to write range %s: %w", sheetRange, err)
	}
	log.Infof("Exported report %s to spreadsheet %s (%d cells)", report.Month, e.spreadsheetId, response.UpdatedCells)
	if response.UpdatedRange != "" {
		return response.UpdatedRange, nil
	}
	return sheetRange, nil
}

func sheetValues(report MonthlyReport) [][]any {
	values := make([][]any, 0, len(report.Bars)+4)
	values = append(values, []any{"Month", report.Month, ""}, []any{"Category", "Amount", "Percent"})
	for _, bar := range report.Bars {
		values = append(values, []any{bar.Category, bar.Amount.StringFixed(2), bar.Percent.StringFixed(2)})
	}
	values = append(values,
		[]any{"Total", report.Total.StringFixed(2), ""},
		[]any{"Count", strconv.Itoa(report.Count), ""},
	)
	return values
}

// reportRange quotes the sheet name for A1 notation, doubling any apostrophe in it.
func reportRange(sheetName string) string {
	return fmt.Sprintf("'%s'!A1:C", strings.ReplaceAll(sheetName, "'", "''"))
}

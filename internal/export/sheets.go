package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SheetsExporter writes result sets to a Google Sheets spreadsheet.
// Spreadsheets are looked up by name through Drive and created when absent.
type SheetsExporter struct {
	sheets *sheets.Service
	drive  *drive.Service
	log    zerolog.Logger
}

// NewSheetsExporter authenticates with a service account credentials file
func NewSheetsExporter(ctx context.Context, credentialsPath string, logger zerolog.Logger) (*SheetsExporter, error) {
	if credentialsPath == "" {
		return nil, errors.New("missing Google credentials: set GOOGLE_CREDENTIALS_PATH")
	}

	sheetsSvc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return NewSheetsExporterWithServices(sheetsSvc, driveSvc, logger), nil
}

// NewSheetsExporterWithServices wires already constructed API services
func NewSheetsExporterWithServices(sheetsSvc *sheets.Service, driveSvc *drive.Service, logger zerolog.Logger) *SheetsExporter {
	return &SheetsExporter{
		sheets: sheetsSvc,
		drive:  driveSvc,
		log:    logger.With().Str("component", "sheets").Logger(),
	}
}

// Export replaces the contents of worksheetName in spreadsheetName with videos
// and returns the spreadsheet URL
func (e *SheetsExporter) Export(ctx context.Context, videos []*model.VideoInfo, spreadsheetName, worksheetName string) (string, error) {
	if len(videos) == 0 {
		return "", ErrNoVideos
	}
	if worksheetName == "" {
		worksheetName = DefaultSheetName
	}
	target := spreadsheetName + "/" + worksheetName

	e.log.Info().
		Int("count", len(videos)).
		Str("spreadsheet", spreadsheetName).
		Str("worksheet", worksheetName).
		Msg("Sheets export started")

	spreadsheetID, err := e.findOrCreateSpreadsheet(ctx, spreadsheetName, worksheetName)
	if err != nil {
		return "", &Error{Op: "open spreadsheet", Target: target, Err: err}
	}

	sheetID, err := e.findOrCreateWorksheet(ctx, spreadsheetID, worksheetName)
	if err != nil {
		return "", &Error{Op: "open worksheet", Target: target, Err: err}
	}

	rangeRef := quoteSheetName(worksheetName)
	if _, err := e.sheets.Spreadsheets.Values.Clear(spreadsheetID, rangeRef, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", &Error{Op: "clear worksheet", Target: target, Err: err}
	}

	if _, err := e.sheets.Spreadsheets.Values.Update(spreadsheetID, rangeRef+"!A1", &sheets.ValueRange{Values: sheetRows(videos)}).
		ValueInputOption("RAW").
		Context(ctx).Do(); err != nil {
		return "", &Error{Op: "write values", Target: target, Err: err}
	}

	if _, err := e.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formatRequests(sheetID),
	}).Context(ctx).Do(); err != nil {
		return "", &Error{Op: "format worksheet", Target: target, Err: err}
	}

	url := SpreadsheetURL(spreadsheetID)
	e.log.Info().Str("url", url).Msg("Sheets export completed")
	return url, nil
}

func (e *SheetsExporter) findOrCreateSpreadsheet(ctx context.Context, name, worksheetName string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeDriveQuery(name), spreadsheetMimeType)

	list, err := e.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to search spreadsheet: %w", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	created, err := e.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: name},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: worksheetName}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	e.log.Info().Str("spreadsheet", name).Str("id", created.SpreadsheetId).Msg("Spreadsheet created")
	return created.SpreadsheetId, nil
}

func (e *SheetsExporter) findOrCreateWorksheet(ctx context.Context, spreadsheetID, title string) (int64, error) {
	ss, err := e.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, nil
		}
	}

	resp, err := e.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to add worksheet: %w", err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, errors.New("add worksheet returned no properties")
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// SpreadsheetURL returns the browser URL of a spreadsheet
func SpreadsheetURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", id)
}

func sheetRows(videos []*model.VideoInfo) [][]interface{} {
	header := Headers()
	rows := make([][]interface{}, 0, len(videos)+1)

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	rows = append(rows, headerRow)

	for i, v := range videos {
		rows = append(rows, Row(i+1, v))
	}
	return rows
}

func formatRequests(sheetID int64) []*sheets.Request {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{SheetId: sheetID, StartRowIndex: 0, EndRowIndex: 1},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor:     &sheets.Color{Red: 0x44 / 255.0, Green: 0x72 / 255.0, Blue: 0xC4 / 255.0},
						HorizontalAlignment: "CENTER",
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	for i, c := range Columns {
		requests = append(requests, &sheets.Request{
			UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: int64(i),
					EndIndex:   int64(i + 1),
				},
				// Sheets widths are pixels, roughly 7px per workbook character
				Properties: &sheets.DimensionProperties{PixelSize: int64(c.Width * 7)},
				Fields:     "pixelSize",
			},
		})
	}
	return requests
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func escapeDriveQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

package export

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName names the worksheet in workbooks and cloud sheets
const DefaultSheetName = "YouTube Videos"

const (
	headerColor = "4472C4"
	linkColor   = "0563C1"
)

// ExcelExporter writes result sets to .xlsx workbooks
type ExcelExporter struct {
	log zerolog.Logger
}

// NewExcelExporter creates a workbook exporter
func NewExcelExporter(logger zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{log: logger.With().Str("component", "excel").Logger()}
}

type excelStyles struct {
	header int
	link   int
	number int
}

// Export writes videos to a new workbook at path, replacing any existing file
func (e *ExcelExporter) Export(videos []*model.VideoInfo, path string) error {
	if len(videos) == 0 {
		return ErrNoVideos
	}

	e.log.Info().Int("count", len(videos)).Str("path", path).Msg("Excel export started")

	f := excelize.NewFile()
	defer f.Close()

	sheet := DefaultSheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return &Error{Op: "prepare sheet", Target: path, Err: err}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return &Error{Op: "create styles", Target: path, Err: err}
	}

	if err := writeExcelHeader(f, sheet, styles); err != nil {
		return &Error{Op: "write header", Target: path, Err: err}
	}

	for i, v := range videos {
		if err := writeExcelRow(f, sheet, i+2, Row(i+1, v), styles); err != nil {
			return &Error{Op: "write row", Target: path, Err: err}
		}
	}

	for i, c := range Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return &Error{Op: "set column width", Target: path, Err: err}
		}
		if err := f.SetColWidth(sheet, col, col, c.Width); err != nil {
			return &Error{Op: "set column width", Target: path, Err: err}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return &Error{Op: "freeze header", Target: path, Err: err}
	}

	if err := f.SaveAs(path); err != nil {
		return &Error{Op: "save workbook", Target: path, Err: err}
	}

	e.log.Info().Str("path", path).Msg("Excel export completed")
	return nil
}

func newExcelStyles(f *excelize.File) (*excelStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	link, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: linkColor, Underline: "single"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create link style: %w", err)
	}

	// 3 is the built-in "#,##0" format
	number, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}

	return &excelStyles{header: header, link: link, number: number}, nil
}

func writeExcelHeader(f *excelize.File, sheet string, styles *excelStyles) error {
	for i, h := range Headers() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, styles.header)
}

func writeExcelRow(f *excelize.File, sheet string, row int, values []interface{}, styles *excelStyles) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}

		switch i {
		case ColURL, ColThumbnail:
			link, _ := value.(string)
			if link == "" {
				continue
			}
			if err := f.SetCellHyperLink(sheet, cell, link, "External"); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles.link); err != nil {
				return err
			}
		case ColViews, ColLikes, ColComments:
			if err := f.SetCellStyle(sheet, cell, cell, styles.number); err != nil {
				return err
			}
		}
	}
	return nil
}

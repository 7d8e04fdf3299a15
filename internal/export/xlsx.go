package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

var headers = []string{"#", "Player Name", "Player Tag", "TH Level", "Discord Name", "Signed Up At"}

const (
	maxSheetNameLen = 31
	timeLayout      = "2006-01-02 15:04"
)

// RosterWorkbook renders a roster as an xlsx workbook. The sheet is named
// after the event, truncated to the xlsx sheet name limit.
func RosterWorkbook(event *domain.Event, signups []*domain.Signup) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := sheetName(event.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(headers))
	for col, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		widths[col] = len(title)
	}

	for i, s := range signups {
		row := i + 2
		values := []interface{}{
			s.Position,
			s.PlayerName,
			s.PlayerTag,
			s.TownHall,
			s.DiscordName,
			s.CreatedAt.Format(timeLayout),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
			if w := cellWidth(value); w > widths[col] {
				widths[col] = w
			}
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, name, name, float64(width)+2); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	return f, nil
}

func sheetName(eventName string) string {
	if eventName == "" {
		return "Roster"
	}
	runes := []rune(eventName)
	if len(runes) > maxSheetNameLen {
		runes = runes[:maxSheetNameLen]
	}
	return string(runes)
}

func cellWidth(value interface{}) int {
	switch v := value.(type) {
	case string:
		return len(v)
	case int:
		return len(strconv.Itoa(v))
	default:
		return 0
	}
}

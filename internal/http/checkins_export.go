package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/xuri/excelize/v2"
)

// CheckinsExportHeader 导出表头
var CheckinsExportHeader = []string{
	"Date",
	"Memory Score",
	"Orientation Score",
	"Activities Score",
	"Mood",
	"Notes",
	"AI Risk Level",
	"AI Status",
	"AI Summary",
	"AI Suggestions",
	"Created At",
}

// GenerateCheckinsExport 生成签到历史导出 Excel 文件
// checkins: 签到数据列表（最新在前），为空时只生成表头
func GenerateCheckinsExport(checkins []*models.Checkin) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteToBuffer needs the file to be open

	sheetName := "Check-ins"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 设置表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range CheckinsExportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, checkin := range checkins {
		values := []any{
			checkin.Date,
			checkin.MemoryScore,
			checkin.OrientationScore,
			checkin.ActivitiesScore,
			checkin.Mood,
			checkin.Notes,
			derefOr(checkin.AIRiskLevel, ""),
			checkin.AIStatus,
			derefOr(checkin.AISummary, ""),
			strings.Join(checkin.AISuggestions, "; "),
			checkin.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to resolve data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set data cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

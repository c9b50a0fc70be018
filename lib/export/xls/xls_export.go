package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	issueapimodels "cpm-backend/models/api/issue"
)

type Provider interface {
	ExportOverdueReport(stats issueapimodels.OverdueStats) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var overdueHeaders = []string{"Issue", "Type", "Project", "Priority", "Status", "Due date", "Days until due", "Urgency"}

func (i impl) ExportOverdueReport(stats issueapimodels.OverdueStats) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx file close failed")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, overdueHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if len(stats.Items) != 0 {
		row, err = writeOverdueData(f, sheet, stats.Items, row)
		if err != nil {
			return nil, errors.Wrap(err, "xlsx data write failed")
		}
	}
	row += 2
	if err = writeSummary(f, sheet, stats, row); err != nil {
		return nil, errors.Wrap(err, "xlsx summary write failed")
	}
	f.SetSheetName(sheet, "Overdue issues")
	return f.WriteToBuffer()
}

func writeOverdueData(f *excelize.File, sheet string, items []issueapimodels.IssueUrgencyView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(overdueHeaders), len(items)+1); err != nil {
		return row, err
	}
	for _, item := range items {
		row++
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.Type); err != nil {
			return row, err
		}

		col++
		project := item.ProjectName
		if project == "" {
			project = item.ProjectID
		}
		if err := writeColumn(f, sheet, col, row, project); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, string(item.Priority)); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		col++
		if item.DueDate != nil {
			if err := writeColumn(f, sheet, col, row, item.DueDate.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		col++
		if item.DaysUntilDue != nil {
			if err := writeColumn(f, sheet, col, row, *item.DaysUntilDue); err != nil {
				return row, err
			}
		}

		col++
		if err := writeColumn(f, sheet, col, row, string(item.Urgency)); err != nil {
			return row, err
		}
	}
	return row, nil
}

func writeSummary(f *excelize.File, sheet string, stats issueapimodels.OverdueStats, row int) error {
	lines := []string{
		fmt.Sprintf("Outstanding issues: %d", stats.Total),
		fmt.Sprintf("Overdue: %d", stats.OverdueCount),
		fmt.Sprintf("Due soon: %d", stats.WarningCount),
	}
	for _, line := range lines {
		if err := writeColumn(f, sheet, 1, row, line); err != nil {
			return err
		}
		row++
	}
	return nil
}

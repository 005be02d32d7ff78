package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	ExportRequestList(list []dbmodels.ApprovalRequest) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var requestHeaders = []string{"Заявка", "Шаблон", "Заявитель", "Статус", "Срочность", "Этап", "Подана", "Завершена", "Создана"}

func (i impl) ExportRequestList(list []dbmodels.ApprovalRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, requestHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeRequestData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Заявки")
	return f.WriteToBuffer()
}

func writeRequestData(f *excelize.File, sheet string, list []dbmodels.ApprovalRequest, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(requestHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Заявка"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		// "Шаблон"
		col++
		if item.Template != nil {
			if err := writeColumn(f, sheet, col, row, item.Template.Name); err != nil {
				return row, err
			}
		}

		// "Заявитель"
		col++
		if item.Requester != nil {
			if err := writeColumn(f, sheet, col, row, item.Requester.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		// "Срочность"
		col++
		if err := writeColumn(f, sheet, col, row, item.Urgency.ToHuman()); err != nil {
			return row, err
		}

		// "Этап"
		col++
		if item.TotalSteps > 0 {
			if err := writeColumn(f, sheet, col, row, fmt.Sprintf("%v из %v", item.CurrentStep, item.TotalSteps)); err != nil {
				return row, err
			}
		}

		// "Подана"
		col++
		if item.SubmittedAt != nil {
			if err := writeColumn(f, sheet, col, row, item.SubmittedAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Завершена"
		col++
		if item.CompletedAt != nil {
			if err := writeColumn(f, sheet, col, row, item.CompletedAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Создана"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006")); err != nil {
			return row, err
		}
	}
	return row, nil
}

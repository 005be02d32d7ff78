package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	dbmodels "miniflow-backend/models/db"
)

// GenerateApprovalSheet формирует лист согласования по завершенной или текущей заявке
func GenerateApprovalSheet(rec dbmodels.ApprovalRequest) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalSheet panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 16)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	pdf.CellFormat(0, 10, "Лист согласования", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	writeField(pdf, "Заявка", rec.Title)
	if rec.Template != nil {
		writeField(pdf, "Шаблон", rec.Template.Name)
	}
	if rec.Requester != nil {
		writeField(pdf, "Заявитель", rec.Requester.GetFullName())
	}
	writeField(pdf, "Статус", rec.Status.ToHuman())
	writeField(pdf, "Срочность", rec.Urgency.ToHuman())
	if rec.SubmittedAt != nil {
		writeField(pdf, "Подана", rec.SubmittedAt.Format("02.01.2006 15:04"))
	}
	if rec.CompletedAt != nil {
		writeField(pdf, "Завершена", rec.CompletedAt.Format("02.01.2006 15:04"))
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Этапы согласования", "", 1, "L", false, 0, "")
	writeStepsHeader(pdf)
	pdf.SetFont("Arial", "", 11)
	for _, step := range rec.Steps {
		writeStepRow(pdf, step)
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeField(pdf *fpdf.Fpdf, name, value string) {
	pdf.CellFormat(0, 7, fmt.Sprintf("%v: %v", name, value), "", 1, "L", false, 0, "")
}

var stepColWidths = []float64{12, 58, 30, 30, 30, 30}

func writeStepsHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 11)
	headers := []string{"№", "Согласующий", "Тип", "Статус", "Дата", "Комментарий"}
	for k, header := range headers {
		pdf.CellFormat(stepColWidths[k], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

func writeStepRow(pdf *fpdf.Fpdf, step dbmodels.ApprovalStep) {
	approver := ""
	if step.Approver != nil {
		approver = step.Approver.GetFullName()
	}
	processedAt := ""
	if step.ProcessedAt != nil {
		processedAt = step.ProcessedAt.Format("02.01.2006")
	}
	values := []string{
		fmt.Sprintf("%v", step.StepOrder),
		approver,
		step.Type.ToHuman(),
		step.Status.ToHuman(),
		processedAt,
		step.Comment,
	}
	for k, value := range values {
		pdf.CellFormat(stepColWidths[k], 8, value, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

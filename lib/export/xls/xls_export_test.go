package xlsexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"miniflow-backend/models"
	dbmodels "miniflow-backend/models/db"
)

func TestExportRequestList(t *testing.T) {
	submittedAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	list := []dbmodels.ApprovalRequest{
		{
			BaseModel: dbmodels.BaseModel{
				ID:        "req-1",
				CreatedAt: time.Date(2026, 8, 9, 10, 0, 0, 0, time.UTC),
			},
			Template:    &dbmodels.RequestTemplate{Name: "Договор"},
			Requester:   &dbmodels.User{FirstName: "Иван", LastName: "Иванов"},
			Title:       "Договор аренды",
			Status:      models.RequestStatusApproved,
			Urgency:     models.UrgencyUrgent,
			CurrentStep: 2,
			TotalSteps:  2,
			SubmittedAt: &submittedAt,
			CompletedAt: &completedAt,
		},
	}

	handler := impl{}
	buffer, err := handler.ExportRequestList(list)
	require.Nil(t, err)
	require.NotNil(t, buffer)

	f, err := excelize.OpenReader(buffer)
	require.Nil(t, err)
	defer f.Close()

	sheet := "Заявки"
	title, err := f.GetCellValue(sheet, "A1")
	require.Nil(t, err)
	require.Equal(t, "Заявка", title)

	checks := map[string]string{
		"A2": "Договор аренды",
		"B2": "Договор",
		"C2": "Иван Иванов",
		"D2": "Согласована",
		"E2": "Срочная",
		"F2": "2 из 2",
		"G2": "10.08.2026",
		"H2": "12.08.2026",
		"I2": "09.08.2026",
	}
	for cell, expected := range checks {
		value, err := f.GetCellValue(sheet, cell)
		require.Nil(t, err, cell)
		require.Equal(t, expected, value, cell)
	}
}

func TestExportRequestListEmpty(t *testing.T) {
	handler := impl{}
	buffer, err := handler.ExportRequestList(nil)
	require.Nil(t, err)

	f, err := excelize.OpenReader(buffer)
	require.Nil(t, err)
	defer f.Close()

	rows, err := f.GetRows("Заявки")
	require.Nil(t, err)
	require.Len(t, rows, 1)
}

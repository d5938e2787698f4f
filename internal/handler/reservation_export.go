package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/xuri/excelize/v2"
)

func (h ReservationHandler) export(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	items, err := h.listFiltered(w, r, user.TenantID)
	if err != nil {
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		data, err := exportReservationsCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"reservas_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportReservationsXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"reservas_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func reservationExportRow(res *domain.Reservation) []string {
	return []string{
		strconv.FormatInt(res.ID, 10),
		res.ReferenceCode,
		res.ContactName,
		formatOptionalDate(res.CheckInDate),
		formatOptionalDate(res.CheckOutDate),
		string(res.Status),
		strconv.Itoa(len(res.Rooms)),
		strconv.Itoa(res.GuestCount()),
		strconv.FormatInt(res.PackageValue.Amount, 10),
		strconv.FormatInt(res.ConsumptionTotal(), 10),
		strconv.FormatInt(res.PaidAmount.Amount, 10),
		strconv.FormatInt(res.BalanceDue(), 10),
	}
}

var reservationExportHeader = []string{
	"id", "reference", "contact", "check_in", "check_out", "status",
	"rooms", "guests", "package_value", "consumption", "paid", "balance",
}

func exportReservationsCSV(items []domain.Reservation) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(reservationExportHeader)
	for i := range items {
		_ = w.Write(reservationExportRow(&items[i]))
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportReservationsXLSX(items []domain.Reservation) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Reservas"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range reservationExportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r := range items {
		row := reservationExportRow(&items[r])
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "C", 28)
	_ = f.SetColWidth(sheet, "D", "F", 14)
	_ = f.SetColWidth(sheet, "G", "L", 14)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "L1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

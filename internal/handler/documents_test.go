package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

func testSettings() *domain.Settings {
	return &domain.Settings{
		LodgeName:     "Pousada Rio Claro",
		LodgeAddress:  "Barra do São Lourenço, MT",
		LodgePhone:    "(65) 3333-0000",
		ReceiptFooter: "Obrigado pela preferência!",
		CheckinHour:   "12:00",
		CheckoutHour:  "10:00",
	}
}

func TestDocumentRendererProposal(t *testing.T) {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	deal := &domain.Deal{
		ContactName: "João Pescador",
		Value:       domain.Money{Amount: 160000},
		Budget: &domain.Budget{
			City:         "Corumbá",
			CheckInDate:  &checkIn,
			CheckOutDate: &checkOut,
			FishingDays:  3,
			People:       2,
			Items: []domain.BudgetItem{
				{Name: "Diária", Qty: 3, UnitPrice: domain.Money{Amount: 45000}, Total: domain.Money{Amount: 135000}},
				{Name: "Transfer", Description: "Aeroporto ida e volta", Qty: 1, UnitPrice: domain.Money{Amount: 25000}, Total: domain.Money{Amount: 25000}},
			},
		},
		Payments: []domain.Payment{
			{ID: "p1", Amount: domain.Money{Amount: 30000}, Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Method: "Pix"},
		},
	}

	doc, err := NewDocumentRenderer().Proposal(testSettings(), deal)
	if err != nil {
		t.Fatalf("Proposal: %v", err)
	}
	html := string(doc)
	for _, want := range []string{
		"Pousada Rio Claro",
		"João Pescador",
		"Corumbá",
		"10/09/2026",
		"Diária",
		"Transfer",
		"R$ 450,00",
		"R$ 1600,00",
		"Pix",
		"Obrigado pela preferência!",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("proposal missing %q", want)
		}
	}
}

func TestDocumentRendererExtract(t *testing.T) {
	res := &domain.Reservation{
		ReferenceCode: "abc-123",
		ContactName:   "Maria Silva",
		Status:        domain.ReservationCheckedIn,
		PackageValue:  domain.Money{Amount: 100000},
		PaidAmount:    domain.Money{Amount: 30000},
		Rooms: []domain.AllocatedRoom{
			{
				RoomID:     1,
				RoomNumber: "101",
				Guests:     []domain.Guest{{Name: "Maria Silva"}},
				Consumption: []domain.ConsumptionItem{
					{ID: "c1", ProductID: 9, ProductName: "Cerveja", Qty: 4, UnitPrice: domain.Money{Amount: 1200}, Total: domain.Money{Amount: 4800}},
				},
			},
			{RoomID: 2, RoomNumber: "102", Consumption: []domain.ConsumptionItem{}},
		},
	}

	doc, err := NewDocumentRenderer().Extract(testSettings(), res)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	html := string(doc)
	for _, want := range []string{
		"abc-123",
		"Maria Silva",
		"Quarto 101",
		"Cerveja",
		"R$ 48,00",
		"Sem consumo registrado.",
		// package 100000 + consumption 4800 - paid 30000
		"R$ 748,00",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("extract missing %q", want)
		}
	}
}

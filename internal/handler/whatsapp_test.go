package handler

import (
	"strings"
	"testing"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

func TestBuildWhatsAppLink(t *testing.T) {
	t.Run("strips formatting and adds country code", func(t *testing.T) {
		got := BuildWhatsAppLink("(65) 99999-1234", "")
		if got != "https://wa.me/5565999991234" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("keeps an existing country code", func(t *testing.T) {
		got := BuildWhatsAppLink("+55 65 99999-1234", "")
		if got != "https://wa.me/5565999991234" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("escapes the message", func(t *testing.T) {
		got := BuildWhatsAppLink("65999991234", "Olá João! Total: R$ 1.350,00")
		if !strings.HasPrefix(got, "https://wa.me/5565999991234?text=") {
			t.Fatalf("got %q", got)
		}
		if strings.ContainsAny(strings.TrimPrefix(got, "https://wa.me/5565999991234?text="), " !") {
			t.Fatalf("message not escaped: %q", got)
		}
	})
}

func TestProposalMessage(t *testing.T) {
	deal := &domain.Deal{
		ContactName: "João Pescador",
		Value:       domain.Money{Amount: 135000},
		Budget: &domain.Budget{
			Items: []domain.BudgetItem{
				{Name: "Diária", Qty: 3, UnitPrice: domain.Money{Amount: 45000}, Total: domain.Money{Amount: 135000}},
			},
		},
	}
	settings := &domain.Settings{LodgeName: "Pousada Rio Claro"}

	msg := proposalMessage(settings, deal)
	for _, want := range []string{"João Pescador", "Pousada Rio Claro", "3x Diária", "R$ 1350,00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

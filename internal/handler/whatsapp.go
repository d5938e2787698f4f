package handler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

// BuildWhatsAppLink returns a wa.me deep link for the given phone with the
// message prefilled. Non-digit characters are stripped from the phone and a
// Brazilian country code is assumed when none is present.
func BuildWhatsAppLink(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) <= 11 && !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

func proposalMessage(settings *domain.Settings, deal *domain.Deal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! Segue a proposta de %s:\n", deal.ContactName, settings.LodgeName)
	if deal.Budget != nil {
		for _, item := range deal.Budget.Items {
			fmt.Fprintf(&b, "- %dx %s: %s\n", item.Qty, item.Name, formatMoney(item.Total))
		}
	}
	fmt.Fprintf(&b, "Total: %s", formatMoney(deal.Value))
	return b.String()
}

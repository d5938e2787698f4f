package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

// DocumentRenderer produces the printable HTML documents: the budget
// proposal sent to a contact, the reservation confirmation and the checkout
// extract with the consumption tab.
type DocumentRenderer struct {
	proposal     *template.Template
	confirmation *template.Template
	extract      *template.Template
}

func NewDocumentRenderer() *DocumentRenderer {
	funcs := template.FuncMap{
		"money": formatMoney,
		"date":  formatDate,
	}
	return &DocumentRenderer{
		proposal:     template.Must(template.New("proposal").Funcs(funcs).Parse(proposalTemplate)),
		confirmation: template.Must(template.New("confirmation").Funcs(funcs).Parse(confirmationTemplate)),
		extract:      template.Must(template.New("extract").Funcs(funcs).Parse(extractTemplate)),
	}
}

func formatMoney(m domain.Money) string {
	currency := m.Currency
	if currency == "" {
		currency = "R$"
	}
	if currency == "BRL" {
		currency = "R$"
	}
	whole := m.Amount / 100
	cents := m.Amount % 100
	if cents < 0 {
		cents = -cents
	}
	return fmt.Sprintf("%s %d,%02d", currency, whole, cents)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

type proposalData struct {
	Lodge    *domain.Settings
	Deal     *domain.Deal
	IssuedAt time.Time
}

func (d *DocumentRenderer) Proposal(lodge *domain.Settings, deal *domain.Deal) ([]byte, error) {
	return render(d.proposal, proposalData{Lodge: lodge, Deal: deal, IssuedAt: time.Now()})
}

type reservationData struct {
	Lodge            *domain.Settings
	Reservation      *domain.Reservation
	ConsumptionTotal domain.Money
	BalanceDue       domain.Money
	IssuedAt         time.Time
}

func newReservationData(lodge *domain.Settings, res *domain.Reservation) reservationData {
	return reservationData{
		Lodge:            lodge,
		Reservation:      res,
		ConsumptionTotal: domain.Money{Amount: res.ConsumptionTotal()},
		BalanceDue:       domain.Money{Amount: res.BalanceDue()},
		IssuedAt:         time.Now(),
	}
}

func (d *DocumentRenderer) Confirmation(lodge *domain.Settings, res *domain.Reservation) ([]byte, error) {
	return render(d.confirmation, newReservationData(lodge, res))
}

func (d *DocumentRenderer) Extract(lodge *domain.Settings, res *domain.Reservation) ([]byte, error) {
	return render(d.extract, newReservationData(lodge, res))
}

func render(tpl *template.Template, data any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := tpl.Execute(buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const documentStyle = `<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; } h2 { font-size: 1.1em; margin-top: 1.5em; }
table { border-collapse: collapse; width: 100%; margin-top: .5em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
tfoot td { font-weight: bold; }
.footer { margin-top: 3em; font-size: .85em; color: #666; }
</style>`

const proposalTemplate = `<!doctype html>
<html><head><meta charset="utf-8"><title>Proposta</title>` + documentStyle + `</head>
<body>
<h1>{{.Lodge.LodgeName}}</h1>
<p>{{.Lodge.LodgeAddress}} · {{.Lodge.LodgePhone}}</p>
<h2>Proposta de pacote de pesca</h2>
<p>Cliente: <strong>{{.Deal.ContactName}}</strong>{{if .Deal.ContactPhone}} · {{.Deal.ContactPhone}}{{end}}</p>
{{with .Deal.Budget}}
<p>
{{if .City}}Destino: {{.City}} · {{end}}
Período: {{date .CheckInDate}} a {{date .CheckOutDate}} ·
{{.FishingDays}} diária(s) · {{.People}} pessoa(s)
</p>
<table>
<thead><tr><th>Item</th><th>Qtde</th><th>Valor unitário</th><th>Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Name}}{{if .Description}}<br><small>{{.Description}}</small>{{end}}</td><td>{{.Qty}}</td><td>{{money .UnitPrice}}</td><td>{{money .Total}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}
<h2>Total: {{money .Deal.Value}}</h2>
{{if .Deal.Payments}}
<h2>Pagamentos recebidos</h2>
<table>
<thead><tr><th>Data</th><th>Forma</th><th>Valor</th></tr></thead>
<tbody>
{{range .Deal.Payments}}<tr><td>{{.Date.Format "02/01/2006"}}</td><td>{{.Method}}</td><td>{{money .Amount}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}
<p class="footer">{{.Lodge.ReceiptFooter}}<br>Emitido em {{.IssuedAt.Format "02/01/2006 15:04"}}</p>
</body></html>`

const confirmationTemplate = `<!doctype html>
<html><head><meta charset="utf-8"><title>Confirmação</title>` + documentStyle + `</head>
<body>
<h1>{{.Lodge.LodgeName}}</h1>
<h2>Confirmação de reserva {{.Reservation.ReferenceCode}}</h2>
<p>Hóspede: <strong>{{.Reservation.ContactName}}</strong></p>
<p>Check-in: {{date .Reservation.CheckInDate}} às {{.Lodge.CheckinHour}} ·
Check-out: {{date .Reservation.CheckOutDate}} às {{.Lodge.CheckoutHour}}</p>
<h2>Acomodações</h2>
<table>
<thead><tr><th>Quarto</th><th>Hóspedes</th></tr></thead>
<tbody>
{{range .Reservation.Rooms}}<tr><td>{{.RoomNumber}}</td><td>{{range $i, $g := .Guests}}{{if $i}}, {{end}}{{$g.Name}}{{end}}</td></tr>
{{end}}
</tbody>
</table>
<p>Valor do pacote: <strong>{{money .Reservation.PackageValue}}</strong> ·
Pago: {{money .Reservation.PaidAmount}}</p>
<p class="footer">{{.Lodge.ReceiptFooter}}<br>Emitido em {{.IssuedAt.Format "02/01/2006 15:04"}}</p>
</body></html>`

const extractTemplate = `<!doctype html>
<html><head><meta charset="utf-8"><title>Extrato</title>` + documentStyle + `</head>
<body>
<h1>{{.Lodge.LodgeName}}</h1>
<h2>Extrato da reserva {{.Reservation.ReferenceCode}}</h2>
<p>Hóspede: <strong>{{.Reservation.ContactName}}</strong></p>
{{range .Reservation.Rooms}}
<h2>Quarto {{.RoomNumber}}</h2>
{{if .Consumption}}
<table>
<thead><tr><th>Produto</th><th>Qtde</th><th>Valor unitário</th><th>Total</th></tr></thead>
<tbody>
{{range .Consumption}}<tr><td>{{.ProductName}}</td><td>{{.Qty}}</td><td>{{money .UnitPrice}}</td><td>{{money .Total}}</td></tr>
{{end}}
</tbody>
</table>
{{else}}<p>Sem consumo registrado.</p>{{end}}
{{end}}
<h2>Resumo</h2>
<table>
<tbody>
<tr><td>Pacote</td><td>{{money .Reservation.PackageValue}}</td></tr>
<tr><td>Consumo</td><td>{{money .ConsumptionTotal}}</td></tr>
<tr><td>Pago</td><td>{{money .Reservation.PaidAmount}}</td></tr>
</tbody>
<tfoot>
<tr><td>Saldo</td><td>{{money .BalanceDue}}</td></tr>
</tfoot>
</table>
<p class="footer">{{.Lodge.ReceiptFooter}}<br>Emitido em {{.IssuedAt.Format "02/01/2006 15:04"}}</p>
</body></html>`

package observability

import (
	"net/http"

	"p2p-lending-backend/internal/domain/money"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lending"

// Metrics counts marketplace transitions. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	loansCreated    prometheus.Counter
	offersSubmitted prometheus.Counter
	loansFunded     prometheus.Counter
	fundedAmount    prometheus.Counter
	paymentsApplied prometheus.Counter
	loansCompleted  prometheus.Counter
}

func NewMetrics() *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &Metrics{
		registry:        prometheus.NewRegistry(),
		loansCreated:    counter("loans_created_total", "Loan requests created by borrowers."),
		offersSubmitted: counter("offers_submitted_total", "Interest-rate offers submitted by lenders."),
		loansFunded:     counter("loans_funded_total", "Loans funded by accepting an offer."),
		fundedAmount:    counter("funded_amount_total", "Principal plus fees debited from lenders."),
		paymentsApplied: counter("payments_applied_total", "Installments paid."),
		loansCompleted:  counter("loans_completed_total", "Loans with every installment paid."),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loansCreated, m.offersSubmitted, m.loansFunded,
		m.fundedAmount, m.paymentsApplied, m.loansCompleted,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) LoanCreated() {
	if m != nil {
		m.loansCreated.Inc()
	}
}

func (m *Metrics) OfferSubmitted() {
	if m != nil {
		m.offersSubmitted.Inc()
	}
}

func (m *Metrics) LoanFunded(total money.Money) {
	if m != nil {
		m.loansFunded.Inc()
		m.fundedAmount.Add(total.Decimal().InexactFloat64())
	}
}

func (m *Metrics) PaymentApplied() {
	if m != nil {
		m.paymentsApplied.Inc()
	}
}

func (m *Metrics) LoanCompleted() {
	if m != nil {
		m.loansCompleted.Inc()
	}
}

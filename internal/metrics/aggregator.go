package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

// Input holds collections already narrowed to one window. SalesLeads are
// windowed by appointment date and feed revenue and acceptance; FunnelLeads
// are windowed by creation date and feed conversion.
type Input struct {
	SalesLeads  []models.Lead
	FunnelLeads []models.Lead
	ExtraSales  []models.ExtraSale
	Expenses    []models.Expense
	Campaigns   []models.Campaign
	Posts       []models.Post
	Followers   []models.FollowerCount
}

type payments struct {
	buckets    map[models.PaymentMethod]decimal.Decimal
	unassigned decimal.Decimal
}

func newPayments() *payments {
	p := &payments{buckets: make(map[models.PaymentMethod]decimal.Decimal, len(models.PaymentMethods))}
	for _, m := range models.PaymentMethods {
		p.buckets[m] = decimal.Zero
	}
	return p
}

func (p *payments) add(m models.PaymentMethod, amount decimal.Decimal) {
	if _, ok := p.buckets[m]; !ok {
		p.unassigned = p.unassigned.Add(amount)
		return
	}
	p.buckets[m] = p.buckets[m].Add(amount)
}

// Summarize computes the roll-up for one window. It never fails: absent
// amounts count as zero and empty denominators yield a zero rate.
func Summarize(in Input) models.Summary {
	var (
		fromLeads, fromTreatments decimal.Decimal
		products, procedures      decimal.Decimal
		expenses, debt, recv      decimal.Decimal
		accepted, decided         int
	)
	pay := newPayments()

	for _, l := range in.SalesLeads {
		amt := Amount(l.AmountPaid)
		fromLeads = fromLeads.Add(amt)
		pay.add(l.PaymentMethod, amt)

		for _, t := range l.Treatments {
			tAmt := Amount(t.AmountPaid)
			pay.add(t.PaymentMethod, tAmt)
			if l.TreatmentAccepted == models.AcceptanceYes {
				fromTreatments = fromTreatments.Add(tAmt)
			}
		}
		if l.TreatmentAccepted.Decided() {
			decided++
			if l.TreatmentAccepted == models.AcceptanceYes {
				accepted++
			}
		}
	}

	for _, s := range in.ExtraSales {
		amt := Amount(s.AmountPaid)
		if models.IsProductsCategory(s.Category) {
			products = products.Add(amt)
		} else {
			procedures = procedures.Add(amt)
		}
		recv = recv.Add(Amount(s.Debt))
		pay.add(s.PaymentMethod, amt)
	}

	for _, e := range in.Expenses {
		expenses = expenses.Add(Amount(e.AmountPaid))
		debt = debt.Add(Amount(e.Debt))
	}

	byStatus := make(map[models.LeadStatus]int)
	scheduled := 0
	for _, l := range in.FunnelLeads {
		byStatus[l.Status]++
		if l.Status == models.LeadScheduled {
			scheduled++
		}
	}

	sum := models.Summary{
		SalesFromLeads:              Cents(fromLeads),
		SalesFromAcceptedTreatments: Cents(fromTreatments),
		ExtraSalesProducts:          Cents(products),
		ExtraSalesProcedures:        Cents(procedures),
		TotalSales:                  Cents(fromLeads.Add(fromTreatments).Add(products).Add(procedures)),
		TotalExpenses:               Cents(expenses),
		TotalDebt:                   Cents(debt),
		ReceivableDebt:              Cents(recv),
		ConversionRate:              Percent(float64(scheduled), float64(len(in.FunnelLeads))),
		TreatmentAcceptanceRate:     Percent(float64(accepted), float64(decided)),
		SalesByPaymentMethod:        make(map[models.PaymentMethod]float64, len(pay.buckets)),
		UnassignedPayments:          Cents(pay.unassigned),
		LeadsByStatus:               byStatus,
		Marketing:                   marketing(in),
	}
	for m, v := range pay.buckets {
		sum.SalesByPaymentMethod[m] = Cents(v)
	}
	return sum
}

func marketing(in Input) models.Marketing {
	var spend decimal.Decimal
	var mk models.Marketing
	for _, c := range in.Campaigns {
		spend = spend.Add(Amount(c.AmountSpent))
		mk.CampaignResults += max0(c.Results)
	}
	for _, p := range in.Posts {
		mk.PostViews += max0(p.Views)
		mk.PostInteractions += max0(p.Comments) + max0(p.Reactions)
	}
	for _, f := range in.Followers {
		mk.NetFollowers += f.NewFollowers - f.Unfollows
	}
	mk.CampaignSpend = Cents(spend)
	if mk.CampaignResults > 0 {
		mk.CostPerResult = Cents(spend.Div(decimal.NewFromInt(int64(mk.CampaignResults))))
	}
	mk.EngagementRate = Percent(float64(mk.PostInteractions), float64(mk.PostViews))
	return mk
}

// Percent returns num/den*100 rounded to two decimals, or 0 when den is not
// positive.
func Percent(num, den float64) float64 {
	return round2(safeDivF(num, den) * 100)
}

// Amount converts a raw amount to cents, treating negative or non-finite
// values as 0. Every sum is built from these, so totals need no further
// rounding to agree with their parts.
func Amount(f float64) decimal.Decimal {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(2)
}

// Cents rounds to two decimals for output.
func Cents(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func safeDivF(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

package models

import "strings"

type PaymentMethod string

const (
	PaymentUnknown      PaymentMethod = ""
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentWallet       PaymentMethod = "wallet"
)

// PaymentMethods are the buckets of Summary.SalesByPaymentMethod, in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentBankTransfer, PaymentWallet}

// ParsePaymentMethod maps wire labels onto a bucket. Yape and Plin are both
// mobile wallets and collapse into PaymentWallet.
func ParsePaymentMethod(s string) PaymentMethod {
	switch norm(s) {
	case "cash", "efectivo":
		return PaymentCash
	case "card", "tarjeta", "credit_card", "debit_card", "pos":
		return PaymentCard
	case "bank_transfer", "transfer", "transferencia", "deposit", "deposito":
		return PaymentBankTransfer
	case "wallet", "yape", "plin", "yape/plin":
		return PaymentWallet
	}
	return PaymentUnknown
}

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadFollowing LeadStatus = "following"
	LeadToBePaid  LeadStatus = "to_be_paid"
	LeadScheduled LeadStatus = "scheduled"
	LeadLost      LeadStatus = "lost"
)

// ParseLeadStatus defaults unknown labels to LeadNew.
func ParseLeadStatus(s string) LeadStatus {
	switch norm(s) {
	case "following", "follow_up", "seguimiento":
		return LeadFollowing
	case "to_be_paid", "tobepaid", "por_pagar":
		return LeadToBePaid
	case "scheduled", "agendado":
		return LeadScheduled
	case "lost", "perdido":
		return LeadLost
	}
	return LeadNew
}

type Acceptance string

const (
	AcceptanceUnset Acceptance = ""
	AcceptanceYes   Acceptance = "yes"
	AcceptanceNo    Acceptance = "no"
)

func ParseAcceptance(s string) Acceptance {
	switch norm(s) {
	case "yes", "si", "sí", "true":
		return AcceptanceYes
	case "no", "false":
		return AcceptanceNo
	}
	return AcceptanceUnset
}

func (a Acceptance) Decided() bool { return a == AcceptanceYes || a == AcceptanceNo }

type GoalArea string

const (
	AreaSales      GoalArea = "sales"
	AreaMarketing  GoalArea = "marketing"
	AreaOperations GoalArea = "operations"
	AreaClinical   GoalArea = "clinical"
)

type GoalUnit string

const (
	UnitCount   GoalUnit = "count"
	UnitPercent GoalUnit = "percent"
)

type Objective string

const (
	ObjectiveSalesOfServices     Objective = "sales_of_services"
	ObjectiveFollowers           Objective = "followers"
	ObjectiveTreatmentAcceptance Objective = "treatment_acceptance"
	ObjectiveEngagement          Objective = "engagement"
	ObjectiveProductSales        Objective = "product_sales"
	ObjectiveNewLeads            Objective = "new_leads"
	ObjectiveCampaignResults     Objective = "campaign_results"
)

type NotificationType string

const (
	NotifyPaymentDue          NotificationType = "payment_due"
	NotifyPatientComplication NotificationType = "patient_complication"
	NotifyNewLead             NotificationType = "new_lead"
	NotifyAppointmentToday    NotificationType = "appointment_today"
	NotifyCallReminder        NotificationType = "call_reminder"
)

// NotificationTypes lists every type the rule engine can emit.
var NotificationTypes = []NotificationType{
	NotifyPaymentDue,
	NotifyPatientComplication,
	NotifyNewLead,
	NotifyAppointmentToday,
	NotifyCallReminder,
}

// IsProductsCategory reports whether an extra-sale category is the
// distinguished "Products" one; every other category is procedure-origin.
func IsProductsCategory(category string) bool {
	c := norm(category)
	return c == "products" || c == "productos"
}

func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

package models

import "time"

type Treatment struct {
	Name          string
	AmountPaid    float64
	PaymentMethod PaymentMethod
}

type Procedure struct {
	Date         time.Time
	Staff        string
	TreatmentRef string
}

type FollowUp struct {
	Date         time.Time
	Inflammation bool
	Blisters     bool
	Allergy      bool
	Malaise      bool
	Outbreak     bool
	Headache     bool
	Bruising     bool
	Note         string
}

// HasComplication reports whether any symptom flag is set.
func (f FollowUp) HasComplication() bool {
	return f.Inflammation || f.Blisters || f.Allergy || f.Malaise ||
		f.Outbreak || f.Headache || f.Bruising
}

// Symptoms lists the flagged symptoms in a fixed order.
func (f FollowUp) Symptoms() []string {
	var out []string
	for _, s := range []struct {
		on   bool
		name string
	}{
		{f.Inflammation, "inflammation"},
		{f.Blisters, "blisters"},
		{f.Allergy, "allergy"},
		{f.Malaise, "malaise"},
		{f.Outbreak, "outbreak"},
		{f.Headache, "headache"},
		{f.Bruising, "bruising"},
	} {
		if s.on {
			out = append(out, s.name)
		}
	}
	return out
}

// Zero time.Time values mean "unset" for every date field below.
type Lead struct {
	ID                string
	Name              string
	Phone             string
	CreatedAt         time.Time
	AppointmentAt     time.Time
	Status            LeadStatus
	AmountPaid        float64
	PaymentMethod     PaymentMethod
	Treatments        []Treatment
	Procedures        []Procedure
	FollowUps         []FollowUp
	NextCallAt        time.Time
	TreatmentAccepted Acceptance
}

type ExtraSale struct {
	ID            string
	Date          time.Time
	Category      string
	AmountPaid    float64
	Debt          float64
	PaymentMethod PaymentMethod
}

type Expense struct {
	ID         string
	DueDate    time.Time
	AmountPaid float64
	Debt       float64
	Supplier   string
}

type Campaign struct {
	ID          string
	Name        string
	Date        time.Time
	AmountSpent float64
	Results     int
}

type Post struct {
	ID        string
	Date      time.Time
	Views     int
	Comments  int
	Reactions int
}

type FollowerCount struct {
	ID           string
	Date         time.Time
	NewFollowers int
	Unfollows    int
}

type Goal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Area      GoalArea  `json:"area"`
	Objective Objective `json:"objective"`
	Target    float64   `json:"target"`
	Unit      GoalUnit  `json:"unit"`
	Assignee  string    `json:"assignee,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Snapshot is one consistent copy of every collection the engine reads.
type Snapshot struct {
	Leads      []Lead
	ExtraSales []ExtraSale
	Expenses   []Expense
	Campaigns  []Campaign
	Posts      []Post
	Followers  []FollowerCount
	Goals      []Goal
}

type NotificationEvent struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Detail    string           `json:"detail"`
	RefID     string           `json:"ref_id"`
	Page      string           `json:"page"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

type Marketing struct {
	CampaignSpend    float64 `json:"campaign_spend"`
	CampaignResults  int     `json:"campaign_results"`
	CostPerResult    float64 `json:"cost_per_result"`
	PostViews        int     `json:"post_views"`
	PostInteractions int     `json:"post_interactions"`
	EngagementRate   float64 `json:"engagement_rate"`
	NetFollowers     int     `json:"net_followers"`
}

type Summary struct {
	From                        string                    `json:"from,omitempty"`
	To                          string                    `json:"to,omitempty"`
	SalesFromLeads              float64                   `json:"sales_from_leads"`
	SalesFromAcceptedTreatments float64                   `json:"sales_from_accepted_treatments"`
	ExtraSalesProducts          float64                   `json:"extra_sales_products"`
	ExtraSalesProcedures        float64                   `json:"extra_sales_procedures"`
	TotalSales                  float64                   `json:"total_sales"`
	TotalExpenses               float64                   `json:"total_expenses"`
	TotalDebt                   float64                   `json:"total_debt"`
	ReceivableDebt              float64                   `json:"receivable_debt"`
	ConversionRate              float64                   `json:"conversion_rate"`
	TreatmentAcceptanceRate     float64                   `json:"treatment_acceptance_rate"`
	SalesByPaymentMethod        map[PaymentMethod]float64 `json:"sales_by_payment_method"`
	UnassignedPayments          float64                   `json:"unassigned_payments"`
	LeadsByStatus               map[LeadStatus]int        `json:"leads_by_status"`
	Marketing                   Marketing                 `json:"marketing"`
}

type GoalProgress struct {
	Goal       Goal    `json:"goal"`
	Achieved   float64 `json:"achieved"`
	Supported  bool    `json:"supported"`
	Active     bool    `json:"active"`
	Completion float64 `json:"completion"`
}

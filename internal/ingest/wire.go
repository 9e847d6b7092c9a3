package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

// Document is the JSON shape served by the upstream source and accepted by
// clinicctl as a snapshot file.
type Document struct {
	Leads      []LeadWire      `json:"leads"`
	ExtraSales []ExtraSaleWire `json:"extra_sales"`
	Expenses   []ExpenseWire   `json:"expenses"`
	Campaigns  []CampaignWire  `json:"campaigns"`
	Posts      []PostWire      `json:"posts"`
	Followers  []FollowerWire  `json:"followers"`
	Goals      []GoalWire      `json:"goals"`
}

type TreatmentWire struct {
	Name          string  `json:"name"`
	AmountPaid    float64 `json:"amount_paid"`
	PaymentMethod string  `json:"payment_method"`
}

type ProcedureWire struct {
	Date      string `json:"date"`
	Staff     string `json:"staff"`
	Treatment string `json:"treatment"`
}

type FollowUpWire struct {
	Date         string `json:"date"`
	Inflammation bool   `json:"inflammation"`
	Blisters     bool   `json:"blisters"`
	Allergy      bool   `json:"allergy"`
	Malaise      bool   `json:"malaise"`
	Outbreak     bool   `json:"outbreak"`
	Headache     bool   `json:"headache"`
	Bruising     bool   `json:"bruising"`
	Note         string `json:"note"`
}

type LeadWire struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	CreatedAt         string          `json:"created_at"`
	AppointmentAt     string          `json:"appointment_at"`
	Status            string          `json:"status"`
	AmountPaid        float64         `json:"amount_paid"`
	PaymentMethod     string          `json:"payment_method"`
	Treatments        []TreatmentWire `json:"treatments"`
	Procedures        []ProcedureWire `json:"procedures"`
	FollowUps         []FollowUpWire  `json:"follow_ups"`
	NextCallDate      string          `json:"next_call_date"`
	NextCallTime      string          `json:"next_call_time"`
	TreatmentAccepted string          `json:"treatment_accepted"`
}

type ExtraSaleWire struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	AmountPaid    float64 `json:"amount_paid"`
	Debt          float64 `json:"debt"`
	PaymentMethod string  `json:"payment_method"`
}

type ExpenseWire struct {
	ID         string  `json:"id"`
	DueDate    string  `json:"due_date"`
	AmountPaid float64 `json:"amount_paid"`
	Debt       float64 `json:"debt"`
	Supplier   string  `json:"supplier"`
}

type CampaignWire struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	AmountSpent float64 `json:"amount_spent"`
	Results     int     `json:"results"`
}

type PostWire struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Views     int    `json:"views"`
	Comments  int    `json:"comments"`
	Reactions int    `json:"reactions"`
}

type FollowerWire struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	NewFollowers int    `json:"new_followers"`
	Unfollows    int    `json:"unfollows"`
}

type GoalWire struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Area      string  `json:"area"`
	Objective string  `json:"objective"`
	Target    float64 `json:"target"`
	Unit      string  `json:"unit"`
	Assignee  string  `json:"assignee"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts ISO dates and timestamps and returns the instant in UTC.
// Anything else, including the empty string, yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ParseCall joins a YYYY-MM-DD date with an HH:MM time. Both are required.
func ParseCall(date, clock string) time.Time {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, date+" "+clock); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Normalize converts wire records to models. Records without an ID get a
// stable one derived from their content; editing such a record upstream
// therefore yields a new ID, and an incremental merge adds it next to the old
// one until the next full ingest.
func Normalize(doc Document) models.Snapshot {
	var snap models.Snapshot
	for _, r := range doc.Leads {
		snap.Leads = append(snap.Leads, normalizeLead(r))
	}
	for _, r := range doc.ExtraSales {
		snap.ExtraSales = append(snap.ExtraSales, models.ExtraSale{
			ID:            ensureID("extra_sale", r.ID, r),
			Date:          ParseDate(r.Date),
			Category:      strings.TrimSpace(r.Category),
			AmountPaid:    maxf(r.AmountPaid),
			Debt:          maxf(r.Debt),
			PaymentMethod: models.ParsePaymentMethod(r.PaymentMethod),
		})
	}
	for _, r := range doc.Expenses {
		snap.Expenses = append(snap.Expenses, models.Expense{
			ID:         ensureID("expense", r.ID, r),
			DueDate:    ParseDate(r.DueDate),
			AmountPaid: maxf(r.AmountPaid),
			Debt:       maxf(r.Debt),
			Supplier:   strings.TrimSpace(r.Supplier),
		})
	}
	for _, r := range doc.Campaigns {
		snap.Campaigns = append(snap.Campaigns, models.Campaign{
			ID:          ensureID("campaign", r.ID, r),
			Name:        strings.TrimSpace(r.Name),
			Date:        ParseDate(r.Date),
			AmountSpent: maxf(r.AmountSpent),
			Results:     max0(r.Results),
		})
	}
	for _, r := range doc.Posts {
		snap.Posts = append(snap.Posts, models.Post{
			ID:        ensureID("post", r.ID, r),
			Date:      ParseDate(r.Date),
			Views:     max0(r.Views),
			Comments:  max0(r.Comments),
			Reactions: max0(r.Reactions),
		})
	}
	for _, r := range doc.Followers {
		snap.Followers = append(snap.Followers, models.FollowerCount{
			ID:           ensureID("followers", r.ID, r),
			Date:         ParseDate(r.Date),
			NewFollowers: max0(r.NewFollowers),
			Unfollows:    max0(r.Unfollows),
		})
	}
	for _, r := range doc.Goals {
		snap.Goals = append(snap.Goals, models.Goal{
			ID:        ensureID("goal", r.ID, r),
			Name:      strings.TrimSpace(r.Name),
			Area:      models.GoalArea(normEnum(r.Area)),
			Objective: models.Objective(normEnum(r.Objective)),
			Target:    maxf(r.Target),
			Unit:      parseUnit(r.Unit),
			Assignee:  strings.TrimSpace(r.Assignee),
			StartDate: ParseDate(r.StartDate),
			EndDate:   ParseDate(r.EndDate),
		})
	}
	return snap
}

func normalizeLead(r LeadWire) models.Lead {
	l := models.Lead{
		ID:                ensureID("lead", r.ID, r),
		Name:              strings.TrimSpace(r.Name),
		Phone:             strings.TrimSpace(r.Phone),
		CreatedAt:         ParseDate(r.CreatedAt),
		AppointmentAt:     ParseDate(r.AppointmentAt),
		Status:            models.ParseLeadStatus(r.Status),
		AmountPaid:        maxf(r.AmountPaid),
		PaymentMethod:     models.ParsePaymentMethod(r.PaymentMethod),
		NextCallAt:        ParseCall(r.NextCallDate, r.NextCallTime),
		TreatmentAccepted: models.ParseAcceptance(r.TreatmentAccepted),
	}
	for _, t := range r.Treatments {
		l.Treatments = append(l.Treatments, models.Treatment{
			Name:          strings.TrimSpace(t.Name),
			AmountPaid:    maxf(t.AmountPaid),
			PaymentMethod: models.ParsePaymentMethod(t.PaymentMethod),
		})
	}
	for _, p := range r.Procedures {
		l.Procedures = append(l.Procedures, models.Procedure{
			Date:         ParseDate(p.Date),
			Staff:        strings.TrimSpace(p.Staff),
			TreatmentRef: strings.TrimSpace(p.Treatment),
		})
	}
	for _, f := range r.FollowUps {
		l.FollowUps = append(l.FollowUps, models.FollowUp{
			Date:         ParseDate(f.Date),
			Inflammation: f.Inflammation,
			Blisters:     f.Blisters,
			Allergy:      f.Allergy,
			Malaise:      f.Malaise,
			Outbreak:     f.Outbreak,
			Headache:     f.Headache,
			Bruising:     f.Bruising,
			Note:         strings.TrimSpace(f.Note),
		})
	}
	return l
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("clinicpulse/records"))

func ensureID(kind, id string, content any) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewSHA1(idNamespace, []byte(kind+"|"+fingerprint(content))).String()
}

func fingerprint(v any) string { return fmt.Sprintf("%+v", v) }

func parseUnit(s string) models.GoalUnit {
	switch normEnum(s) {
	case "percent", "%", "percentage":
		return models.UnitPercent
	}
	return models.UnitCount
}

func normEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

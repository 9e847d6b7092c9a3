package ingest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AngelCh415/clinicpulse/internal/config"
	"github.com/AngelCh415/clinicpulse/internal/models"
	"github.com/AngelCh415/clinicpulse/internal/store"
	"github.com/AngelCh415/clinicpulse/internal/telemetry"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

var (
	ErrSourceNotConfigured = errors.New("source not configured")
	ErrSinkNotConfigured   = errors.New("sink not configured")
)

type ETL struct {
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	cfg config.Config
	tm  *telemetry.Metrics
	now func() time.Time
}

func NewETL(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config, tm *telemetry.Metrics) *ETL {
	return &ETL{c: c, st: st, log: log, cfg: cfg, tm: tm, now: time.Now}
}

// Run pulls the upstream document. Without since the store is replaced
// wholesale; with since only records dated on or after that day are merged
// in, and rows already merged with identical content are skipped.
func (e *ETL) Run(ctx context.Context, since *time.Time) (err error) {
	defer func() { e.tm.IngestRun(err) }()

	if e.cfg.SourceURL == "" {
		return ErrSourceNotConfigured
	}
	var doc Document
	if err := getJSON(ctx, e.c, e.cfg.SourceURL, &doc); err != nil {
		return fmt.Errorf("fetch source: %w", err)
	}
	snap := Normalize(doc)

	if since == nil {
		at := e.now().UTC()
		e.st.Replace(snap, at)
		e.tm.SnapshotLoaded(at)
		e.record(snap)
		e.log.Info("ingest complete",
			slog.String("mode", "full"),
			slog.Int("leads", len(snap.Leads)),
			slog.Int("extra_sales", len(snap.ExtraSales)),
			slog.Int("expenses", len(snap.Expenses)),
			slog.Int("goals", len(snap.Goals)))
		return nil
	}

	merged := e.merge(snap, window.Window{From: window.StartOfDay(*since)})
	e.record(merged)
	e.log.Info("ingest complete",
		slog.String("mode", "incremental"),
		slog.String("since", since.UTC().Format(window.DateLayout)),
		slog.Int("leads", len(merged.Leads)),
		slog.Int("extra_sales", len(merged.ExtraSales)),
		slog.Int("expenses", len(merged.Expenses)))
	return nil
}

// merge upserts the records of snap inside w and returns what was stored.
// A record is skipped when its content matches the last version merged under
// the same ID.
// Leads count as recent when either their creation or appointment date is.
// Goals are always merged.
func (e *ETL) merge(snap models.Snapshot, w window.Window) models.Snapshot {
	var out models.Snapshot
	for _, l := range snap.Leads {
		if !w.Contains(l.CreatedAt) && !w.Contains(l.AppointmentAt) {
			continue
		}
		if !e.st.MarkSeen("lead|"+l.ID, fingerprint(l)) {
			continue
		} // idempotencia
		e.st.UpsertLead(l)
		out.Leads = append(out.Leads, l)
	}
	for _, v := range window.Filter(snap.ExtraSales, w, window.ExtraSaleDate) {
		if e.st.MarkSeen("extra_sale|"+v.ID, fingerprint(v)) {
			e.st.UpsertExtraSale(v)
			out.ExtraSales = append(out.ExtraSales, v)
		}
	}
	for _, v := range window.Filter(snap.Expenses, w, window.ExpenseDue) {
		if e.st.MarkSeen("expense|"+v.ID, fingerprint(v)) {
			e.st.UpsertExpense(v)
			out.Expenses = append(out.Expenses, v)
		}
	}
	for _, v := range window.Filter(snap.Campaigns, w, window.CampaignDate) {
		if e.st.MarkSeen("campaign|"+v.ID, fingerprint(v)) {
			e.st.UpsertCampaign(v)
			out.Campaigns = append(out.Campaigns, v)
		}
	}
	for _, v := range window.Filter(snap.Posts, w, window.PostDate) {
		if e.st.MarkSeen("post|"+v.ID, fingerprint(v)) {
			e.st.UpsertPost(v)
			out.Posts = append(out.Posts, v)
		}
	}
	for _, v := range window.Filter(snap.Followers, w, window.FollowerDate) {
		if e.st.MarkSeen("followers|"+v.ID, fingerprint(v)) {
			e.st.UpsertFollowerCount(v)
			out.Followers = append(out.Followers, v)
		}
	}
	for _, g := range snap.Goals {
		if e.st.MarkSeen("goal|"+g.ID, fingerprint(g)) {
			e.st.UpsertGoal(g)
			out.Goals = append(out.Goals, g)
		}
	}
	return out
}

func (e *ETL) record(s models.Snapshot) {
	e.tm.RecordsIngested("lead", len(s.Leads))
	e.tm.RecordsIngested("extra_sale", len(s.ExtraSales))
	e.tm.RecordsIngested("expense", len(s.Expenses))
	e.tm.RecordsIngested("campaign", len(s.Campaigns))
	e.tm.RecordsIngested("post", len(s.Posts))
	e.tm.RecordsIngested("followers", len(s.Followers))
	e.tm.RecordsIngested("goal", len(s.Goals))
}

// ExportSummary posts sum to the sink, signed with HMAC-SHA256 of the body
// in the X-Signature header.
func (e *ETL) ExportSummary(ctx context.Context, sum models.Summary) error {
	if e.cfg.SinkURL == "" || e.cfg.SinkSecret == "" {
		return ErrSinkNotConfigured
	}
	b, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.SinkURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(b, e.cfg.SinkSecret))
	resp, err := e.c.Do(req)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("export sink non-2xx: %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

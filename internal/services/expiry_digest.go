package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/platform/sendgrid"
)

// ExpiryDigest mails active admins a summary of expired and critical batches,
// at most once per local day. When marks is set the day is claimed there
// first, so restarts and other instances do not send it again.
type ExpiryDigest struct {
	log      *logger.Logger
	mail     sendgrid.Client
	userRepo repos.UserRepo
	marks    repos.DigestMarkRepo
	cfg      InventoryConfig
	extra    []string

	mu       sync.Mutex
	lastSent types.Date
}

func NewExpiryDigest(log *logger.Logger, mail sendgrid.Client, userRepo repos.UserRepo, marks repos.DigestMarkRepo, cfg InventoryConfig, extraRecipients []string) *ExpiryDigest {
	return &ExpiryDigest{
		log:      log.With("service", "ExpiryDigest"),
		mail:     mail,
		userRepo: userRepo,
		marks:    marks,
		cfg:      cfg,
		extra:    extraRecipients,
	}
}

// Send reports whether a mail went out. Nothing is sent when the report is
// clean or a digest was already sent today.
func (d *ExpiryDigest) Send(ctx context.Context, rep *ExpiryReport) (bool, error) {
	if d == nil || d.mail == nil || rep == nil || (len(rep.Critical) == 0 && len(rep.Expired) == 0) {
		return false, nil
	}
	now := d.cfg.now()
	today := inventory.Today(now)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastSent.Equal(today) {
		return false, nil
	}

	to, err := d.recipients(ctx)
	if err != nil {
		return false, err
	}
	if len(to) == 0 {
		d.log.Warn("Expiry digest has no recipients")
		return false, nil
	}

	rows := make([]types.Batch, 0, len(rep.Expired)+len(rep.Critical))
	for _, st := range append(append([]inventory.ExpiryStatus{}, rep.Expired...), rep.Critical...) {
		rows = append(rows, st.Batch)
	}
	var csvBuf bytes.Buffer
	if err := inventory.WriteReportCSV(&csvBuf, rows, now, d.cfg.windows()); err != nil {
		return false, err
	}

	if d.marks != nil {
		claimed, err := d.marks.Claim(dbcOf(ctx), today)
		if err != nil {
			return false, fmt.Errorf("claim expiry digest %s: %w", today, err)
		}
		if !claimed {
			d.lastSent = today
			d.log.Debug("Expiry digest already sent elsewhere", "day", today.String())
			return false, nil
		}
	}

	res, err := d.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:         to,
		Subject:    fmt.Sprintf("Inventario: %d vencidos, %d críticos (%s)", len(rep.Expired), len(rep.Critical), today),
		Text:       digestText(rep),
		Categories: []string{"expiry-digest"},
		Attachments: []sendgrid.Attachment{{
			Filename: inventory.ReportFileName(now),
			MIMEType: "text/csv",
			Content:  csvBuf.Bytes(),
		}},
	})
	if err != nil {
		if d.marks != nil {
			if rerr := d.marks.Release(dbcOf(ctx), today); rerr != nil {
				d.log.Warn("Failed to release expiry digest claim", "day", today.String(), "error", rerr)
			}
		}
		return false, fmt.Errorf("send expiry digest: %w", err)
	}
	d.lastSent = today
	d.log.Info("Expiry digest sent", "recipients", len(to), "expired", len(rep.Expired), "critical", len(rep.Critical), "message_id", res.MessageID)
	return true, nil
}

func (d *ExpiryDigest) recipients(ctx context.Context) ([]sendgrid.EmailAddress, error) {
	users, err := d.userRepo.List(dbcOf(ctx))
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []sendgrid.EmailAddress
	add := func(email, name string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		out = append(out, sendgrid.EmailAddress{Email: email, Name: name})
	}
	for _, u := range users {
		if u.Role == types.RoleAdmin && u.Status == types.StatusActive {
			add(u.Email, u.Name)
		}
	}
	for _, e := range d.extra {
		add(e, "")
	}
	return out, nil
}

func digestText(rep *ExpiryReport) string {
	var b strings.Builder
	section := func(title string, rows []inventory.ExpiryStatus) {
		if len(rows) == 0 {
			return
		}
		rows = append([]inventory.ExpiryStatus{}, rows...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].DaysLeft < rows[j].DaysLeft })
		fmt.Fprintf(&b, "%s (%d)\n", title, len(rows))
		for _, st := range rows {
			fmt.Fprintf(&b, "- %s, lote %s: %s, vence %s (%d días)\n",
				st.ProductName, st.BatchNumber, st.Quantity.String(), st.ExpirationDate, st.DaysLeft)
		}
		b.WriteString("\n")
	}
	section("Vencidos", rep.Expired)
	section("Críticos", rep.Critical)
	return strings.TrimSpace(b.String())
}

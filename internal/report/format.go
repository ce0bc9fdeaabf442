package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mwalsh/harrier/internal/aggregate"
	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/notify"
)

// MaxListedFindings caps how many successes the final message lists; the
// remainder is summarized as "+N more" to respect the notifier size ceiling.
const MaxListedFindings = 20

// title uppercases the first letter of a kind name ("scan" -> "Scan").
func title(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

// clock formats a duration as HH:MM:SS.
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// StartMessage formats the notification sent before dispatch begins.
func StartMessage(kind string, service models.Service, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 <b>%s sweep started</b>\n\n", title(kind))
	fmt.Fprintf(&b, "<b>Service:</b> %s\n", strings.ToUpper(service.String()))
	fmt.Fprintf(&b, "<b>Targets:</b> %d\n", total)
	fmt.Fprintf(&b, "<b>Start time:</b> %s", time.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}

// StatusMessage formats one periodic progress update from a snapshot.
func StatusMessage(snap aggregate.Snapshot) string {
	var b strings.Builder
	b.WriteString("<b>Sweep status update</b>\n\n")
	fmt.Fprintf(&b, "🟢 <b>Succeeded:</b> %d\n", snap.Succeeded)
	fmt.Fprintf(&b, "🔴 <b>Failed:</b> %d\n", snap.Failed)
	fmt.Fprintf(&b, "⚪ <b>Indeterminate:</b> %d\n", snap.Indeterminate)
	fmt.Fprintf(&b, "🔄 <b>Tried:</b> %d/%d\n", snap.Tried, snap.Total)
	fmt.Fprintf(&b, "⏱ <b>Elapsed:</b> %s\n", clock(snap.Elapsed))
	fmt.Fprintf(&b, "⏳ <b>Remaining:</b> %s\n", clock(snap.Remaining))
	fmt.Fprintf(&b, "📊 <b>Completion:</b> %.2f%%", snap.Percent)
	return b.String()
}

// SuccessAlert formats the immediate notification for one confirmed finding.
func SuccessAlert(f models.Finding) string {
	var b strings.Builder
	b.WriteString("🚨 <b>Success</b> 🚨\n\n")
	fmt.Fprintf(&b, "<b>Service:</b> %s\n", strings.ToUpper(f.Service.String()))
	fmt.Fprintf(&b, "<b>Target:</b> %s\n", notify.Escape(f.Target.String()))
	if u, ok := f.Detail["username"]; ok {
		fmt.Fprintf(&b, "<b>Username:</b> %s\n", notify.Escape(u))
	}
	if p, ok := f.Detail["password"]; ok {
		fmt.Fprintf(&b, "<b>Password:</b> %s\n", notify.Escape(p))
	}
	fmt.Fprintf(&b, "<b>Time:</b> %s", f.Time.Format(time.RFC3339))
	return b.String()
}

// FinalMessage formats the terminal report. The success list is truncated to
// MaxListedFindings entries with a "+N more" suffix.
func FinalMessage(kind string, snap aggregate.Snapshot, findings []models.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 <b>%s sweep completed</b> 🏁\n\n", title(kind))
	fmt.Fprintf(&b, "<b>Total targets:</b> %d\n", snap.Total)
	fmt.Fprintf(&b, "<b>Succeeded:</b> %d\n", snap.Succeeded)
	fmt.Fprintf(&b, "<b>Failed:</b> %d\n", snap.Failed)
	fmt.Fprintf(&b, "<b>Indeterminate:</b> %d\n", snap.Indeterminate)
	fmt.Fprintf(&b, "<b>Total time:</b> %s\n", clock(snap.Elapsed))

	if len(findings) == 0 {
		b.WriteString("\nNo successes found")
		return b.String()
	}

	b.WriteString("\n<b>Successes:</b>\n")
	listed := findings
	if len(listed) > MaxListedFindings {
		listed = listed[:MaxListedFindings]
	}
	for _, f := range listed {
		fmt.Fprintf(&b, "\n🔓 %s", notify.Escape(f.Target.String()))
		if u, ok := f.Detail["username"]; ok {
			fmt.Fprintf(&b, " %s:%s", notify.Escape(u), notify.Escape(f.Detail["password"]))
		} else if p, ok := f.Detail["port"]; ok {
			fmt.Fprintf(&b, ":%s", p)
		}
	}
	if extra := len(findings) - len(listed); extra > 0 {
		fmt.Fprintf(&b, "\n\n...and %d more", extra)
	}
	return b.String()
}

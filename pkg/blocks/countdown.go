package blocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

// Remaining is the time left until a countdown target.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Expired bool
}

// RemainingUntil breaks the interval between now and target into units.
func RemainingUntil(target, now time.Time) Remaining {
	diff := target.Sub(now)
	if diff <= 0 {
		return Remaining{Expired: true}
	}
	total := int(diff / time.Second)
	return Remaining{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// ParseCountdownTarget combines a date and an optional time of day. Dates
// may also be full RFC 3339 timestamps, in which case the time is ignored.
// Zone-less values are interpreted in loc.
func ParseCountdownTarget(date, clock string, loc *time.Location) (time.Time, bool) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	if strings.Contains(date, "T") {
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
			if t, err := time.ParseInLocation(layout, date, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if clock == "" {
		clock = "00:00"
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var countdownUnits = []struct {
	key, label string
	value      func(Remaining) int
}{
	{"days", "Days", func(r Remaining) int { return r.Days }},
	{"hours", "Hours", func(r Remaining) int { return r.Hours }},
	{"minutes", "Minutes", func(r Remaining) int { return r.Minutes }},
	{"seconds", "Seconds", func(r Remaining) int { return r.Seconds }},
}

type countdownShape struct {
	target     time.Time
	hasTarget  bool
	title      string
	expiredMsg string
	bg         string
	fg         string
	labelColor string
	align      string
}

func countdownFrom(p core.Props, opts core.RenderOptions) countdownShape {
	s := countdownShape{
		title:      p.String("title", ""),
		expiredMsg: p.String("expiredMessage", ""),
		bg:         p.String("backgroundColor", ""),
		fg:         p.String("textColor", ""),
		labelColor: p.String("labelColor", ""),
		align:      align(p, "center"),
	}
	s.target, s.hasTarget = ParseCountdownTarget(p.String("targetDate", ""), p.String("targetTime", ""), opts.Zone())
	return s
}

func (s countdownShape) remaining(now time.Time) Remaining {
	if !s.hasTarget {
		return Remaining{}
	}
	return RemainingUntil(s.target, now)
}

// emailCountdown renders a static snapshot taken at render time.
func emailCountdown(p core.Props, c *Context) string {
	s := countdownFrom(p, c.Options)
	rem := s.remaining(c.Options.Clock())

	var box style.Declarations
	box.Add("padding", "24px")
	box.Add("background-color", s.bg)
	box.Add("color", s.fg)
	box.Add("border-radius", "8px")
	box.Add("text-align", s.align)
	box.Add("font-family", c.Options.Settings.FontFamily)

	if rem.Expired && s.expiredMsg != "" {
		box.Add("font-size", "18px")
		box.Add("font-weight", "bold")
		return emailRow(` align="`+s.align+`"`+styleAttr(box), text(s.expiredMsg))
	}

	var sb strings.Builder
	if s.title != "" {
		sb.WriteString(`<p style="margin: 0 0 16px 0; font-size: 18px; font-weight: bold; color: ` + attr(s.fg) + `;">` + text(s.title) + `</p>`)
	}
	sb.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" border="0" align="` + s.align + `"><tr>`)
	for _, u := range countdownUnits {
		sb.WriteString(`<td align="center" style="padding: 0 10px;">`)
		sb.WriteString(fmt.Sprintf(`<div style="font-size: 32px; font-weight: bold; line-height: 1; color: %s;">%02d</div>`, attr(s.fg), u.value(rem)))
		sb.WriteString(`<div style="padding-top: 4px; font-size: 12px; text-transform: uppercase; color: ` + attr(s.labelColor) + `;">` + u.label + `</div>`)
		sb.WriteString(`</td>`)
	}
	sb.WriteString(`</tr></table>`)

	return emailTable(` style="margin: 0 0 16px 0;"`) + `<tr><td align="` + s.align + `"` + styleAttr(box) + `>` + sb.String() + `</td></tr></table>`
}

const countdownScript = `<script>(function(){var el=document.getElementById(%q);if(!el)return;var target=Date.parse(el.getAttribute("data-target"));if(isNaN(target))return;var timer;function pad(n){return n<10?"0"+n:String(n);}function tick(){var diff=Math.max(0,target-Date.now());var s=Math.floor(diff/1000);var parts={days:Math.floor(s/86400),hours:Math.floor(s%%86400/3600),minutes:Math.floor(s%%3600/60),seconds:s%%60};el.querySelectorAll("[data-unit]").forEach(function(n){n.textContent=pad(parts[n.getAttribute("data-unit")]);});if(diff<=0){clearInterval(timer);var msg=el.querySelector(".lb-countdown-expired");if(msg&&msg.textContent){el.querySelector(".lb-countdown-timer").style.display="none";msg.style.display="block";}}}timer=setInterval(tick,1000);tick();})();</script>`

// webCountdown renders the snapshot and a script that keeps it ticking.
func webCountdown(p core.Props, c *Context) string {
	s := countdownFrom(p, c.Options)
	rem := s.remaining(c.Options.Clock())
	id := c.Options.ElementID("countdown")
	showExpired := rem.Expired && s.expiredMsg != ""

	var box style.Declarations
	box.Add("margin", "0 0 16px 0")
	box.Add("padding", "24px")
	box.Add("background-color", s.bg)
	box.Add("color", s.fg)
	box.Add("border-radius", "8px")
	box.Add("text-align", s.align)

	target := ""
	if s.hasTarget {
		target = s.target.UTC().Format(time.RFC3339)
	}

	justify := map[string]string{"left": "flex-start", "right": "flex-end"}[s.align]
	if justify == "" {
		justify = "center"
	}

	var sb strings.Builder
	sb.WriteString(`<div id="` + attr(id) + `" class="` + c.classes(p) + `" data-target="` + attr(target) + `"` + styleAttr(box) + `>`)
	if s.title != "" {
		sb.WriteString(`<div class="lb-countdown-title" style="margin-bottom: 16px; font-size: 18px; font-weight: bold;">` + text(s.title) + `</div>`)
	}
	timerDisplay := "flex"
	if showExpired {
		timerDisplay = "none"
	}
	sb.WriteString(`<div class="lb-countdown-timer" style="display: ` + timerDisplay + `; justify-content: ` + justify + `; gap: 20px;">`)
	for _, u := range countdownUnits {
		sb.WriteString(`<div class="lb-countdown-unit">`)
		sb.WriteString(fmt.Sprintf(`<span class="lb-countdown-value" data-unit="%s" style="display: block; font-size: 32px; font-weight: bold; line-height: 1;">%02d</span>`, u.key, u.value(rem)))
		sb.WriteString(`<span class="lb-countdown-label" style="display: block; margin-top: 4px; font-size: 12px; text-transform: uppercase; color: ` + attr(s.labelColor) + `;">` + u.label + `</span>`)
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)

	msgDisplay := "none"
	if showExpired {
		msgDisplay = "block"
	}
	sb.WriteString(`<div class="lb-countdown-expired" style="display: ` + msgDisplay + `; font-size: 18px; font-weight: bold;">` + text(s.expiredMsg) + `</div>`)
	sb.WriteString(`</div>`)
	sb.WriteString(fmt.Sprintf(countdownScript, id))
	return sb.String()
}

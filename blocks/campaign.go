package blocks

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/dom"
)

// DefaultCampaignSeconds is the countdown length when none is authored.
const DefaultCampaignSeconds = 120

// overlayDelay is the pause between expiry and the expired overlay.
const overlayDelay = 800 * time.Millisecond

// bannerExpiryDelay keeps the banner's 00:00 reading up for one tick before
// the expired message replaces it.
const bannerExpiryDelay = time.Second

type campaignData struct {
	FlashTag string
	Heading  template.HTML
	Tagline  string
	Desc     string
	Duration int
	Primary  button
	Second   button
}

// campaignHero rows: flash tag, heading, tagline, description, duration in
// seconds, primary CTA (text | url), optional secondary CTA (text | url).
func campaignHero(_ context.Context, b *block.Block) (templ.Component, error) {
	data := campaignData{
		FlashTag: b.Text(0, "Flash Campaign"),
		Heading:  b.Heading(1, "h1, h2", "<h1>Campaign</h1>"),
		Tagline:  b.Text(2, ""),
		Desc:     b.Text(3, ""),
		Duration: b.Int(4, DefaultCampaignSeconds),
		Primary:  button{Text: b.ColText(5, 0, ""), Href: b.Href(5, 1, "#")},
		Second:   button{Text: b.ColText(6, 0, ""), Href: b.Href(6, 1, "#")},
	}
	return render("campaignhero", data), nil
}

// Timer is a countdown bound to a rendered block.
type Timer struct {
	*anim.Countdown
	stopOverlay func() bool
}

func (t *Timer) SetVisible(bool) {}

func (t *Timer) Close() {
	t.Stop()
	if t.stopOverlay != nil {
		t.stopOverlay()
	}
}

func durationOf(n *html.Node) int {
	v, err := strconv.Atoi(dom.Attr(n, "data-duration"))
	if err != nil || v <= 0 {
		return DefaultCampaignSeconds
	}
	return v
}

// BindCampaignTimer starts the campaign hero countdown. It runs on clock and
// keeps ticking while animations are paused.
func BindCampaignTimer(node *html.Node, ctl *anim.Controller, clock anim.Clock) (block.Animation, error) {
	card := dom.Query(node, ".campaign-hero-timer-card")
	minEl := dom.Query(node, "#chTimerMin")
	secEl := dom.Query(node, "#chTimerSec")
	bar := dom.Query(node, "#chTimerBar")
	status := dom.Query(node, "#chTimerStatus")
	overlay := dom.Query(node, "#chExpiredOverlay")
	if card == nil || minEl == nil || secEl == nil || bar == nil || status == nil {
		return nil, errors.New("blocks: campaign hero has no timer")
	}
	t := &Timer{}
	tick := func(tk anim.Tick) {
		ctl.Do(func() {
			dom.SetText(minEl, fmt.Sprintf("%02d", tk.Remaining/60))
			dom.SetText(secEl, fmt.Sprintf("%02d", tk.Remaining%60))
			dom.SetAttr(bar, "style", fmt.Sprintf("width:%g%%", tk.Percent()))
			dom.RemoveClass(bar, anim.LevelLow, anim.LevelCritical)
			if lvl := tk.Level(); lvl != anim.LevelNormal {
				dom.AddClass(bar, lvl)
			}
			urgent := tk.Level() == anim.LevelCritical
			dom.ToggleClass(minEl, "urgent", urgent)
			dom.ToggleClass(secEl, "urgent", urgent)
		})
	}
	expire := func() {
		ctl.Do(func() {
			if err := dom.SetInnerHTML(status, "Status: <strong>Expired</strong>"); err == nil {
				dom.AddClass(status, "expired")
			}
		})
		if overlay != nil {
			timer := clock.AfterFunc(overlayDelay, func() {
				ctl.Do(func() { dom.AddClass(overlay, "show") })
			})
			t.stopOverlay = timer.Stop
		}
	}
	t.Countdown = anim.NewCountdown(clock, durationOf(card), tick, expire)
	t.Start()
	return t, nil
}

// countdownBanner rows: duration in seconds.
func countdownBanner(_ context.Context, b *block.Block) (templ.Component, error) {
	return render("countdown-banner", b.Int(0, DefaultCampaignSeconds)), nil
}

// BindCountdownBanner starts the sticky banner countdown. It reads down to
// 00:00 and one second later switches to its expired message.
func BindCountdownBanner(node *html.Node, ctl *anim.Controller, clock anim.Clock) (block.Animation, error) {
	inner := dom.Query(node, ".countdown-banner-inner")
	timerEl := dom.Query(node, ".countdown-banner-timer")
	if inner == nil || timerEl == nil {
		return nil, errors.New("blocks: countdown banner has no timer")
	}
	t := &Timer{}
	tick := func(tk anim.Tick) {
		ctl.Do(func() { dom.SetText(timerEl, tk.String()) })
	}
	expire := func() {
		timer := clock.AfterFunc(bannerExpiryDelay, func() {
			ctl.Do(func() {
				dom.AddClass(node, "expired")
				_ = dom.SetInnerHTML(inner, "<span>This flash campaign has expired</span>")
			})
		})
		t.stopOverlay = timer.Stop
	}
	t.Countdown = anim.NewCountdown(clock, durationOf(inner), tick, expire)
	t.Start()
	return t, nil
}

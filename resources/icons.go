package resources

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"

	"focusbar/internal/core/view"
)

const iconFrame = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">%s</svg>`

const (
	timerGlyph = `<circle cx="32" cy="36" r="22" fill="none" stroke="%[1]s" stroke-width="6"/>` +
		`<rect x="26" y="4" width="12" height="6" rx="2" fill="%[1]s"/>` +
		`<path d="M32 36 L32 22" stroke="%[1]s" stroke-width="6" stroke-linecap="round"/>`
	pausedGlyph = `<circle cx="32" cy="32" r="28" fill="%[1]s"/>` +
		`<rect x="22" y="18" width="7" height="28" rx="2" fill="#ffffff"/>` +
		`<rect x="35" y="18" width="7" height="28" rx="2" fill="#ffffff"/>`
	completedGlyph = `<circle cx="32" cy="32" r="28" fill="%[1]s"/>` +
		`<path d="M19 33 L28 42 L46 23" fill="none" stroke="#ffffff" stroke-width="6" stroke-linecap="round" stroke-linejoin="round"/>`
)

// Hex colors per tone.
var toneHex = map[view.Tone]string{
	view.ToneNominal:   "#0D9488",
	view.ToneWarning:   "#F59E0B",
	view.ToneUrgent:    "#EF4444",
	view.TonePaused:    "#F97316",
	view.ToneCompleted: "#10B981",
}

var iconCache sync.Map

// TrayIcon returns the tray glyph for icon drawn in the tone's color.
func TrayIcon(icon view.Icon, tone view.Tone) fyne.Resource {
	key := string(icon) + "-" + string(tone)
	if cached, ok := iconCache.Load(key); ok {
		return cached.(fyne.Resource)
	}

	glyph := timerGlyph
	switch icon {
	case view.IconPaused:
		glyph = pausedGlyph
	case view.IconCompleted:
		glyph = completedGlyph
	}
	content := fmt.Sprintf(iconFrame, fmt.Sprintf(glyph, ToneHex(tone)))
	resource := fyne.NewStaticResource("focusbar-"+key+".svg", []byte(content))

	actual, _ := iconCache.LoadOrStore(key, resource)
	return actual.(fyne.Resource)
}

// PulseFrames returns the two alternating frames shown after completion.
func PulseFrames() []fyne.Resource {
	return []fyne.Resource{
		TrayIcon(view.IconCompleted, view.ToneCompleted),
		TrayIcon(view.IconTimer, view.ToneCompleted),
	}
}

// AppIcon returns the application icon.
func AppIcon() fyne.Resource {
	return TrayIcon(view.IconTimer, view.ToneNominal)
}

// ToneHex returns the hex color for tone, falling back to nominal.
func ToneHex(tone view.Tone) string {
	if hex, ok := toneHex[tone]; ok {
		return hex
	}
	return toneHex[view.ToneNominal]
}

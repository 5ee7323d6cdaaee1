package bubbletea

import (
	"fmt"
	"strings"

	"github.com/fwojciec/scribe"
	"github.com/mattn/go-runewidth"
)

type stepStatus int

const (
	statusPending stepStatus = iota
	statusRunning
	statusDone
	statusFailed
)

// stepBlock is one row of the progress list.
type stepBlock struct {
	eventName string
	resultKey string
	status    stepStatus
	text      string
	usage     scribe.Usage
	message   string // failure reason
	styles    Styles
}

func newStepBlock(s scribe.Step, styles Styles) *stepBlock {
	return &stepBlock{eventName: s.EventName, resultKey: s.ResultKey, styles: styles}
}

func (b *stepBlock) label() string {
	return strings.TrimSuffix(b.eventName, "-complete")
}

func (b *stepBlock) detail() string {
	switch b.status {
	case statusDone:
		model := b.usage.Model
		if model == "" {
			model = "unknown model"
		}
		return fmt.Sprintf("%s  %d→%d tok  %s", model, b.usage.InputTokens, b.usage.OutputTokens, b.usage.Cost.String())
	case statusFailed:
		return b.message
	}
	return ""
}

// view renders the row in at most width columns. Labels are padded to
// labelWidth so details line up.
func (b *stepBlock) view(width, labelWidth int, spin string, selected bool) string {
	var icon string
	switch b.status {
	case statusPending:
		icon = b.styles.Pending.Render("·")
	case statusRunning:
		icon = spin
	case statusDone:
		icon = b.styles.Success.Render("✓")
	case statusFailed:
		icon = b.styles.Error.Render("✗")
	}

	cursor := " "
	if selected {
		cursor = "›"
	}
	label := runewidth.FillRight(runewidth.Truncate(b.label(), labelWidth, "…"), labelWidth)
	if selected {
		label = b.styles.Accent.Render(label)
	}

	row := cursor + icon + " " + label
	room := width - runewidth.StringWidth(cursor) - 2 - labelWidth - 2
	if d := b.detail(); d != "" && room > 0 {
		d = runewidth.Truncate(d, room, "…")
		if b.status == statusFailed {
			d = b.styles.Error.Render(d)
		} else {
			d = b.styles.Muted.Render(d)
		}
		row += "  " + d
	}
	return row
}

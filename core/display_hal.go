// Semantic display model.
// Core never draws: it emits text, bar geometry and visibility updates for
// a small fixed set of widgets and the target renders them however the
// attached panel allows (SSD1306 on the reference hardware).
package core

// Display geometry of the reference panel. Bar geometry in the semantic
// model is expressed in these units.
const (
	DisplayWidth  = 128
	DisplayHeight = 64
)

// WidgetID names one element of the semantic display model.
type WidgetID uint8

const (
	// WidgetTitle is the program title line.
	WidgetTitle WidgetID = iota

	// WidgetNote is the tuner note-name readout.
	WidgetNote

	// WidgetCentsBar is the tuner deviation bar.
	WidgetCentsBar

	// widgetKnobBase starts the per-knob widget range; one widget per
	// physical pot slot on the active page.
	widgetKnobBase
)

// KnobWidget returns the widget for the on-page knob slot (0-based).
func KnobWidget(slot int) WidgetID {
	return widgetKnobBase + WidgetID(slot)
}

// Display is the rendering collaborator contract.
type Display interface {
	// SetText replaces the text of a widget.
	SetText(id WidgetID, text string)

	// SetBar sets a bar widget's width and horizontal anchor in display
	// units. For knob widgets the bar is the value indicator.
	SetBar(id WidgetID, width, x int)

	// SetVisible shows or hides a widget.
	SetVisible(id WidgetID, visible bool)
}

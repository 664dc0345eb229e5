//go:build rp2040 || rp2350

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"zerostomp/core"
)

// Panel layout, in display units.
const (
	titleBaseline  = 14
	knobBarY       = 28
	knobBarHeight  = 6
	knobLabelY     = 52
	noteBaseline   = 44
	centsBarY      = 52
	centsBarHeight = 6
	faultBaseline  = 36
	displayBusFreq = 8 * machine.MHz
)

var (
	textWhite = color.RGBA{255, 255, 255, 255}

	labelFont = &proggy.TinySZ8pt7b
	noteFont  = &freemono.Bold12pt7b
)

// widgetState is the target-side shadow of one semantic widget.
type widgetState struct {
	text     string
	width, x int
	visible  bool
}

// Panel renders the semantic widget model onto the SSD1306 over SPI.
// Core pushes text, bar geometry and visibility; the panel redraws the
// whole frame whenever something changed.
type Panel struct {
	dev     ssd1306.Device
	widgets map[core.WidgetID]*widgetState
	dirty   bool
}

// NewPanel configures the display bus and controller.
func NewPanel() (*Panel, error) {
	err := machine.SPI1.Configure(machine.SPIConfig{
		Frequency: displayBusFreq,
		SCK:       machine.GPIO14,
		SDO:       machine.GPIO15,
		SDI:       machine.GPIO12,
	})
	if err != nil {
		return nil, err
	}

	dev := ssd1306.NewSPI(machine.SPI1, machine.GPIO11, machine.GPIO10, machine.GPIO13)
	dev.Configure(ssd1306.Config{
		Width:  core.DisplayWidth,
		Height: core.DisplayHeight,
	})
	dev.ClearDisplay()

	return &Panel{
		dev:     dev,
		widgets: make(map[core.WidgetID]*widgetState),
		dirty:   true,
	}, nil
}

func (p *Panel) widget(id core.WidgetID) *widgetState {
	w, ok := p.widgets[id]
	if !ok {
		w = &widgetState{}
		p.widgets[id] = w
	}
	return w
}

// SetText replaces the text of a widget.
func (p *Panel) SetText(id core.WidgetID, text string) {
	w := p.widget(id)
	if w.text == text {
		return
	}
	w.text = text
	p.dirty = true
}

// SetBar sets a bar widget's width and horizontal anchor.
func (p *Panel) SetBar(id core.WidgetID, width, x int) {
	w := p.widget(id)
	if w.width == width && w.x == x {
		return
	}
	w.width = width
	w.x = x
	p.dirty = true
}

// SetVisible shows or hides a widget.
func (p *Panel) SetVisible(id core.WidgetID, visible bool) {
	w := p.widget(id)
	if w.visible == visible {
		return
	}
	w.visible = visible
	p.dirty = true
}

// Render pushes the frame to the panel if anything changed this tick.
func (p *Panel) Render() {
	if !p.dirty {
		return
	}
	p.dirty = false

	p.dev.ClearBuffer()

	if w := p.widget(core.WidgetTitle); w.visible {
		p.writeCentered(labelFont, core.DisplayWidth/2, titleBaseline, w.text)
	}

	for slot := 0; slot < numPots; slot++ {
		w := p.widget(core.KnobWidget(slot))
		if !w.visible {
			continue
		}
		p.fillRect(w.x, knobBarY, w.width, knobBarHeight)
		colWidth := core.DisplayWidth / numPots
		p.writeCentered(labelFont, slot*colWidth+colWidth/2, knobLabelY, w.text)
	}

	if w := p.widget(core.WidgetNote); w.visible {
		p.writeCentered(noteFont, core.DisplayWidth/2, noteBaseline, w.text)
	}
	if w := p.widget(core.WidgetCentsBar); w.visible {
		p.fillRect(w.x, centsBarY, w.width, centsBarHeight)
	}

	if err := p.dev.Display(); err != nil {
		core.Debugf("display: " + err.Error())
	}
}

// ShowFault replaces the frame with the fault message. Called from the
// safe-mode path, after which the control loop never runs again.
func (p *Panel) ShowFault(msg string) {
	p.dev.ClearBuffer()
	p.writeCentered(labelFont, core.DisplayWidth/2, titleBaseline, "FAULT")
	tinyfont.WriteLine(&p.dev, labelFont, 0, faultBaseline, msg, textWhite)
	if err := p.dev.Display(); err != nil {
		core.Debugf("display: " + err.Error())
	}
}

func (p *Panel) writeCentered(font *tinyfont.Font, cx, baseline int, text string) {
	tw, _ := tinyfont.LineWidth(font, text)
	tinyfont.WriteLine(&p.dev, font, int16(cx)-int16(tw)/2, int16(baseline), text, textWhite)
}

func (p *Panel) fillRect(x, y, width, height int) {
	for dx := 0; dx < width; dx++ {
		for dy := 0; dy < height; dy++ {
			p.dev.SetPixel(int16(x+dx), int16(y+dy), textWhite)
		}
	}
}

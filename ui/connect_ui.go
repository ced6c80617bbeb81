package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ConnectUI is the address/name form shown before a session exists.
type ConnectUI struct {
	UI *ebitenui.UI

	OnConnect func(address, name string)
	OnFind    func()
	OnQuit    func()

	addressInput *widget.TextInput
	nameInput    *widget.TextInput
	statusLabel  *widget.Label
	connectBtn   *widget.Button
	findBtn      *widget.Button

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

// NewConnectUI builds the form. The Find button is shown only when onFind is set.
func NewConnectUI(address, name string, onConnect func(address, name string), onFind, onQuit func()) (*ConnectUI, error) {
	ui := &ConnectUI{
		OnConnect: onConnect,
		OnFind:    onFind,
		OnQuit:    onQuit,
	}
	if err := ui.loadFonts(); err != nil {
		return nil, err
	}
	ui.buildUI()
	ui.addressInput.SetText(address)
	ui.nameInput.SetText(name)
	return ui, nil
}

func (ui *ConnectUI) loadFonts() error {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fmt.Errorf("load UI font: %w", err)
	}

	ui.titleFace = &text.GoTextFace{Source: fontSource, Size: 18}
	ui.normalFace = &text.GoTextFace{Source: fontSource, Size: 12}
	ui.smallFace = &text.GoTextFace{Source: fontSource, Size: 10}
	return nil
}

func (ui *ConnectUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(12)),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	contentContainer.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("BRICKBRAWL", &ui.titleFace, &widget.LabelColor{
			Idle: color.RGBA{255, 255, 255, 255},
		}),
	))

	contentContainer.AddChild(ui.buildFormPanel())

	ui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 100, 255},
		}),
	)
	contentContainer.AddChild(ui.statusLabel)

	contentContainer.AddChild(ui.buildButtons())

	rootContainer.AddChild(contentContainer)

	ui.UI = &ebitenui.UI{Container: rootContainer}
}

func (ui *ConnectUI) buildFormPanel() *widget.Container {
	padding := widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{30, 30, 45, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)

	var addressRow, nameRow *widget.Container
	addressRow, ui.addressInput = ui.buildInputRow("Server:", "localhost:7373", 180)
	nameRow, ui.nameInput = ui.buildInputRow("Name:  ", "Player", 180)
	panel.AddChild(addressRow)
	panel.AddChild(nameRow)

	return panel
}

func (ui *ConnectUI) buildInputRow(label, placeholder string, width int) (*widget.Container, *widget.TextInput) {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)

	row.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(label, &ui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	))

	input := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 22)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(&ui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
	row.AddChild(input)

	return row, input
}

func (ui *ConnectUI) buildButtons() *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
	)

	ui.connectBtn = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 26)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(color.RGBA{40, 100, 40, 255}),
			Hover:    image.NewNineSliceColor(color.RGBA{60, 140, 60, 255}),
			Pressed:  image.NewNineSliceColor(color.RGBA{30, 80, 30, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 50, 40, 255}),
		}),
		widget.ButtonOpts.Text("Connect", &ui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{200, 255, 200, 255},
			Pressed:  color.RGBA{150, 200, 150, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if ui.OnConnect != nil {
				ui.OnConnect(ui.Address(), ui.Name())
			}
		}),
	)
	container.AddChild(ui.connectBtn)

	if ui.OnFind != nil {
		ui.findBtn = widget.NewButton(
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(80, 26)),
			widget.ButtonOpts.Image(&widget.ButtonImage{
				Idle:     image.NewNineSliceColor(color.RGBA{40, 60, 100, 255}),
				Hover:    image.NewNineSliceColor(color.RGBA{60, 80, 140, 255}),
				Pressed:  image.NewNineSliceColor(color.RGBA{30, 40, 80, 255}),
				Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
			}),
			widget.ButtonOpts.Text("Find", &ui.normalFace, &widget.ButtonTextColor{
				Idle:     color.RGBA{255, 255, 255, 255},
				Hover:    color.RGBA{200, 220, 255, 255},
				Pressed:  color.RGBA{150, 170, 200, 255},
				Disabled: color.RGBA{100, 100, 100, 255},
			}),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				ui.OnFind()
			}),
		)
		container.AddChild(ui.findBtn)
	}

	quitButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(80, 26)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    image.NewNineSliceColor(color.RGBA{60, 60, 80, 255}),
			Hover:   image.NewNineSliceColor(color.RGBA{80, 80, 100, 255}),
			Pressed: image.NewNineSliceColor(color.RGBA{40, 40, 60, 255}),
		}),
		widget.ButtonOpts.Text("Quit", &ui.normalFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 255, 255},
			Hover:   color.RGBA{255, 200, 200, 255},
			Pressed: color.RGBA{200, 150, 150, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if ui.OnQuit != nil {
				ui.OnQuit()
			}
		}),
	)
	container.AddChild(quitButton)

	return container
}

// Address returns the typed server address, falling back to the placeholder.
func (ui *ConnectUI) Address() string {
	addr := strings.TrimSpace(ui.addressInput.GetText())
	if addr == "" {
		return "localhost:7373"
	}
	if !strings.Contains(addr, ":") {
		addr += ":7373"
	}
	return addr
}

func (ui *ConnectUI) Name() string {
	name := strings.TrimSpace(ui.nameInput.GetText())
	if name == "" {
		return "Player"
	}
	return name
}

// SetAddress replaces the typed server address.
func (ui *ConnectUI) SetAddress(addr string) {
	ui.addressInput.SetText(addr)
}

func (ui *ConnectUI) SetFinding(finding bool) {
	if ui.findBtn != nil {
		ui.findBtn.GetWidget().Disabled = finding
	}
}

func (ui *ConnectUI) SetStatus(msg string) {
	if ui.statusLabel != nil {
		ui.statusLabel.Label = msg
	}
}

func (ui *ConnectUI) SetConnecting(connecting bool) {
	if ui.connectBtn != nil {
		ui.connectBtn.GetWidget().Disabled = connecting
	}
}

func (ui *ConnectUI) Update() {
	ui.UI.Update()
}

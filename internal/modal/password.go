package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Password modal elements, in focus order.
const (
	pwField = iota
	pwCancel
	pwSubmit
	pwElementCount
)

// PasswordModal asks for a connection password.
type PasswordModal struct {
	dialog  *Dialog
	input   textinput.Model
	err     string
	focused int
}

// NewPasswordModal creates an empty password prompt.
func NewPasswordModal() *PasswordModal {
	return &PasswordModal{
		dialog: NewDialog("Enter Password", 60, 30,
			Button{ID: ButtonCancel, Label: "Cancel"},
			Button{ID: ButtonSubmit, Label: "Submit"},
		),
		input: newTextInput("", true),
	}
}

func (*PasswordModal) sealed() {}

// Dialog returns the frame.
func (p *PasswordModal) Dialog() *Dialog { return p.dialog }

// SetArea lays the modal out inside area.
func (p *PasswordModal) SetArea(area layout.Rect) {
	p.dialog.SetArea(area)
	p.input.Width = max(p.dialog.ContentRect().Width-inputChrome, 1)
}

// Value returns the entered password.
func (p *PasswordModal) Value() string {
	return p.input.Value()
}

// SetError shows msg under the field and clears the input for a retry.
func (p *PasswordModal) SetError(msg string) {
	p.err = msg
	p.input.SetValue("")
	p.setFocus(pwField)
}

// Error returns the message set by SetError.
func (p *PasswordModal) Error() string {
	return p.err
}

func (p *PasswordModal) setFocus(i int) {
	p.focused = i
	if i == pwField {
		p.input.Focus()
		p.dialog.FocusedButton = -1
	} else {
		p.input.Blur()
		p.dialog.FocusedButton = i - pwCancel
	}
}

// HandleKey processes one key.
func (p *PasswordModal) HandleKey(msg tea.KeyMsg) (Action, error) {
	switch msg.Type {
	case tea.KeyEsc:
		return Close(), nil
	case tea.KeyEnter:
		if p.focused == pwCancel {
			return Custom(ButtonCancel), nil
		}
		return Custom(ButtonSubmit), nil
	case tea.KeyTab:
		p.setFocus((p.focused + 1) % pwElementCount)
		return None(), nil
	case tea.KeyShiftTab:
		p.setFocus((p.focused - 1 + pwElementCount) % pwElementCount)
		return None(), nil
	}

	if p.focused == pwField {
		p.input, _ = p.input.Update(msg)
	}
	return None(), nil
}

// HandleMouse processes one mouse event.
func (p *PasswordModal) HandleMouse(msg tea.MouseMsg) (Action, error) {
	action, ok := p.dialog.HitTest(msg)
	if !ok {
		p.setFocus(pwField)
		return None(), nil
	}
	if action.Kind == ActionCustom {
		p.setFocus(pwCancel + p.dialog.ButtonIndex(action.Button))
	}
	return action, nil
}

// View renders the modal at its stored geometry.
func (p *PasswordModal) View() string {
	var b strings.Builder
	b.WriteString(theme.ModalLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(theme.ModalError.Render("Error: " + p.err))
	}
	return p.dialog.Render(b.String())
}

// inputChrome is the prompt width plus the cursor cell.
const inputChrome = 3

func newTextInput(value string, masked bool) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.SetValue(value)
	ti.Focus()
	return ti
}

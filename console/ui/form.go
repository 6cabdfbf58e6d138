package ui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"user-grid/network"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Field names one draft field.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldAge
	FieldRole
)

// focus slot of the submit button, after the four fields
const focusSubmit = int(FieldRole) + 1

// createdAtLayout matches a browser's toISOString output.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Creator posts new user records.
type Creator interface {
	CreateUser(ctx context.Context, req network.CreateUserRequest) (*network.User, error)
}

// RecordCreatedMsg reports a record the server accepted. The shell owns the
// list and appends it; the form never touches the list itself.
type RecordCreatedMsg struct {
	User network.User
}

type createResultMsg struct {
	user *network.User
	err  error
}

// Draft is the form's unvalidated copy of a record's creatable fields.
type Draft struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   string `validate:"required,age"`
	Role  string `validate:"required,role"`
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("age", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 1 && n <= 120
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return network.Role(fl.Field().String()).Valid()
	})
	return v
}

// Validate applies the input-widget constraints: every field filled,
// an email-shaped email, an age in [1,120] and a known role.
func (d Draft) Validate() error {
	return draftValidator.Struct(d)
}

// Request builds the creation payload. Age goes through integer parsing and
// is sent as null when that fails; nothing else is checked here.
func (d Draft) Request(now time.Time) network.CreateUserRequest {
	req := network.CreateUserRequest{
		Name:      d.Name,
		Email:     d.Email,
		Role:      network.Role(d.Role),
		CreatedAt: now.UTC().Format(createdAtLayout),
	}
	if age, err := strconv.Atoi(strings.TrimSpace(d.Age)); err == nil {
		req.Age = &age
	}
	return req
}

type FormModel struct {
	api Creator
	ctx context.Context
	log zerolog.Logger
	now func() time.Time

	Inputs     []textinput.Model // name, email, age
	Role       string
	Focused    int
	Submitting bool
	Hint       string
}

func NewFormModel(ctx context.Context, api Creator, log zerolog.Logger) FormModel {
	inputs := make([]textinput.Model, 3)

	inputs[FieldName] = textinput.New()
	inputs[FieldName].Placeholder = "Jane Doe"
	inputs[FieldName].CharLimit = 128
	inputs[FieldName].Focus()

	inputs[FieldEmail] = textinput.New()
	inputs[FieldEmail].Placeholder = "jane@example.com"
	inputs[FieldEmail].CharLimit = 254

	inputs[FieldAge] = textinput.New()
	inputs[FieldAge].Placeholder = "1-120"
	inputs[FieldAge].CharLimit = 3

	for i := range inputs {
		inputs[i].Prompt = ""
		inputs[i].Width = 40
		inputs[i].Cursor.Style = focusedStyle
	}

	return FormModel{
		api:    api,
		ctx:    ctx,
		log:    log,
		now:    time.Now,
		Inputs: inputs,
	}
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Draft returns the current field values.
func (m FormModel) Draft() Draft {
	return Draft{
		Name:  m.Inputs[FieldName].Value(),
		Email: m.Inputs[FieldEmail].Value(),
		Age:   m.Inputs[FieldAge].Value(),
		Role:  m.Role,
	}
}

// UpdateField overwrites exactly one draft field without validation.
func (m *FormModel) UpdateField(f Field, value string) {
	switch f {
	case FieldName, FieldEmail, FieldAge:
		m.Inputs[f].SetValue(value)
	case FieldRole:
		m.Role = value
	}
}

func (m *FormModel) reset() {
	for i := range m.Inputs {
		m.Inputs[i].SetValue("")
	}
	m.Role = ""
	m.Hint = ""
}

// Submit sends the draft to the server. While a submission is pending it
// does nothing, so a second request can never be in flight.
func (m FormModel) Submit() (FormModel, tea.Cmd) {
	if m.Submitting {
		return m, nil
	}
	m.Submitting = true
	m.Hint = ""

	req := m.Draft().Request(m.now())
	api, ctx := m.api, m.ctx
	return m, func() tea.Msg {
		u, err := api.CreateUser(ctx, req)
		return createResultMsg{user: u, err: err}
	}
}

func (m FormModel) handleResult(msg createResultMsg) (FormModel, tea.Cmd) {
	m.Submitting = false

	if msg.err != nil || msg.user == nil {
		ev := m.log.Error().Err(msg.err)
		if network.IsStatus(msg.err) {
			ev.Msg("Failed to create user")
		} else {
			ev.Msg("Error creating user")
		}
		return m, nil
	}

	created := *msg.user
	m.log.Info().Int("id", created.ID).Str("name", created.Name).Msg("user created")
	m.reset()
	return m, func() tea.Msg { return RecordCreatedMsg{User: created} }
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case createResultMsg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Next):
			m.setFocus(m.Focused + 1)
			return m, nil
		case key.Matches(msg, keys.Prev):
			m.setFocus(m.Focused - 1)
			return m, nil
		case key.Matches(msg, keys.Enter):
			if m.Focused != focusSubmit {
				m.setFocus(m.Focused + 1)
				return m, nil
			}
			if m.Submitting {
				return m, nil
			}
			if err := m.Draft().Validate(); err != nil {
				m.Hint = describeInvalid(err)
				return m, nil
			}
			return m.Submit()
		}

		if m.Focused == int(FieldRole) {
			switch {
			case key.Matches(msg, keys.RoleNext):
				m.Role = stepRole(m.Role, 1)
			case key.Matches(msg, keys.RolePrev):
				m.Role = stepRole(m.Role, -1)
			}
			return m, nil
		}

		// the age box refuses anything but digits
		if m.Focused == int(FieldAge) && msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if r < '0' || r > '9' {
					return m, nil
				}
			}
		}
	}

	if m.Focused < len(m.Inputs) {
		var cmd tea.Cmd
		m.Inputs[m.Focused], cmd = m.Inputs[m.Focused].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *FormModel) setFocus(i int) {
	slots := focusSubmit + 1
	m.Focused = ((i % slots) + slots) % slots
	for j := range m.Inputs {
		if j == m.Focused {
			m.Inputs[j].Focus()
		} else {
			m.Inputs[j].Blur()
		}
	}
}

// stepRole moves through "" followed by network.Roles, wrapping around.
func stepRole(current string, delta int) string {
	options := make([]string, 0, len(network.Roles)+1)
	options = append(options, "")
	idx := 0
	for i, r := range network.Roles {
		options = append(options, string(r))
		if string(r) == current {
			idx = i + 1
		}
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}

func describeInvalid(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Please fill in all fields"
	}
	switch verrs[0].Field() {
	case "Email":
		if verrs[0].Tag() == "email" {
			return "Please enter a valid email address"
		}
	case "Age":
		if verrs[0].Tag() == "age" {
			return "Age must be between 1 and 120"
		}
	case "Role":
		return "Please select a role"
	}
	return "Please fill in all fields"
}

func (m FormModel) View() string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Create New User") + "\n\n")

	labels := []string{"Name:", "Email:", "Age:"}
	for i := range m.Inputs {
		ls := labelStyle
		if i == m.Focused {
			ls = ls.Foreground(lipgloss.Color("205")).Bold(true)
		}
		b.WriteString(ls.Render(labels[i]) + m.Inputs[i].View() + "\n")
	}

	ls := labelStyle
	if m.Focused == int(FieldRole) {
		ls = ls.Foreground(lipgloss.Color("205")).Bold(true)
	}
	role := "Select a role"
	if m.Role != "" {
		role = network.Role(m.Role).Label()
	}
	roleView := "‹ " + role + " ›"
	if m.Focused == int(FieldRole) {
		roleView = focusedStyle.Render(roleView)
	} else if m.Role == "" {
		roleView = blurredStyle.Render(roleView)
	}
	b.WriteString(ls.Render("Role:") + roleView + "\n\n")

	label := "Create User"
	if m.Submitting {
		label = "Creating..."
	}
	b.WriteString(renderButton(label, m.Focused == focusSubmit && !m.Submitting, "240"))

	if m.Hint != "" {
		b.WriteString("\n" + hintStyle.Render(m.Hint))
	}
	return b.String()
}

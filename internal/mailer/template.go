package mailer

import (
	"fmt"
	"strings"

	"github.com/osteele/liquid"
)

const (
	passSubject = `Your {{ event }} pass: {{ registration_id }}`

	passHTML = `<p>Hi {{ full_name | escape }},</p>
<p>Thank you for registering for {{ event }}. Your pass ID is:</p>
<p style="font-size:1.5em;font-weight:bold;letter-spacing:2px">{{ registration_id }}</p>
<p>Please keep it handy; it will be scanned at check-in.</p>
{% if institution != "" %}<p>Institution: {{ institution | escape }}</p>{% endif %}`

	passText = `Hi {{ full_name }},

Thank you for registering for {{ event }}. Your pass ID is {{ registration_id }}.
Please keep it handy; it will be scanned at check-in.`
)

// PassDetails are the fields rendered into a pass confirmation.
type PassDetails struct {
	Event          string
	RegistrationID string
	FullName       string
	Email          string
	Institution    string
}

// Renderer builds pass confirmation emails from liquid templates.
type Renderer struct {
	subject *liquid.Template
	html    *liquid.Template
	text    *liquid.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()
	parse := func(name, src string) (*liquid.Template, error) {
		tpl, err := engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		return tpl, nil
	}
	r := &Renderer{}
	var err error
	if r.subject, err = parse("subject", passSubject); err != nil {
		return nil, err
	}
	if r.html, err = parse("html", passHTML); err != nil {
		return nil, err
	}
	if r.text, err = parse("text", passText); err != nil {
		return nil, err
	}
	return r, nil
}

// PassConfirmation renders the confirmation message for d.
func (r *Renderer) PassConfirmation(d PassDetails) (*Message, error) {
	bindings := map[string]interface{}{
		"event":           d.Event,
		"registration_id": d.RegistrationID,
		"full_name":       d.FullName,
		"institution":     d.Institution,
	}
	subject, err := r.subject.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	html, err := r.html.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	text, err := r.text.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}
	return &Message{
		To:      d.Email,
		Subject: strings.TrimSpace(subject),
		HTML:    html,
		Text:    text,
	}, nil
}

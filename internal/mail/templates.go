package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// OfferLetter holds everything shown in the hiring email.
type OfferLetter struct {
	Company      string
	SupportEmail string
	Phone        string
	Position     string
	Username     string
	Password     string // empty when the applicant keeps their own password
	Deadline     time.Time
	SignedBy     string
}

var offerTemplate = template.Must(template.New("offer").Parse(`
<h2>Congratulations! Offer of Employment at {{.Company}}</h2>
<p>Greetings from {{.Company}}!</p>
<p>We are pleased to inform you that you have been selected for the position of <strong>{{.Position}}</strong>.
We are excited to have you as part of our growing team.</p>
<p>Your login for the employee portal:</p>
<ul>
  <li><strong>Username:</strong> {{.Username}}</li>
  {{if .Password}}<li><strong>Password:</strong> {{.Password}}</li>{{else}}<li><strong>Password:</strong> the one you chose when you applied</li>{{end}}
</ul>
<h3>Next Steps</h3>
<ul>
  <li>Log in to the portal and complete the onboarding formalities.</li>
  <li>Please complete onboarding before {{.Deadline.Format "January 2, 2006"}}.</li>
  {{if .SupportEmail}}<li>If you cannot log in, contact {{.SupportEmail}}.</li>{{end}}
</ul>
<p>Welcome aboard!</p>
<p>Best Regards,<br>{{.SignedBy}}<br>HR Department<br>{{.Company}}{{if .Phone}}<br>{{.Phone}}{{end}}</p>
`))

// Render builds the offer email. Field values are HTML-escaped.
func (o OfferLetter) Render(to string) (Message, error) {
	var buf bytes.Buffer
	if err := offerTemplate.Execute(&buf, o); err != nil {
		return Message{}, err
	}

	text := fmt.Sprintf("Congratulations! You have been selected for the position of %s at %s. Your username is %s.",
		o.Position, o.Company, o.Username)
	if o.Password != "" {
		text += fmt.Sprintf(" Your password is %s.", o.Password)
	}

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Congratulations! Offer of Employment at %s", o.Company),
		Text:    text,
		HTML:    buf.String(),
	}, nil
}

package alert

import (
	"bytes"
	"fmt"
	"html/template"

	"moneyminder/internal/core"
	"moneyminder/internal/notify"
)

// Subject is the subject line of every budget alert.
const Subject = "MoneyMinder Budget Alert"

// Settings controls how alerts are rendered.
type Settings struct {
	CurrencySymbol string
}

// DefaultSettings renders amounts with a dollar sign.
func DefaultSettings() Settings {
	return Settings{CurrencySymbol: "$"}
}

var htmlBody = template.Must(template.New("alert").Parse(`<html>
<head></head>
<body>
  <h1>{{.Subject}}</h1>
  <p>You've spent <strong>{{.Spent}}</strong> on <strong>{{.Category}}</strong>.</p>
  <p>This exceeds your budget of <strong>{{.Limit}}</strong>.</p>
  <p>Log in to your MoneyMinder account to review your spending and adjust your budget if needed.</p>
</body>
</html>
`))

type bodyData struct {
	Subject  string
	Category string
	Spent    string
	Limit    string
}

// Compose renders the email for an exceeded decision.
func Compose(to string, d Decision, s Settings) (notify.Email, error) {
	data := bodyData{
		Subject:  Subject,
		Category: d.Category,
		Spent:    s.amount(d.Status.Spent),
		Limit:    s.amount(d.Status.Limit),
	}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return notify.Email{}, fmt.Errorf("render alert html: %w", err)
	}

	return notify.Email{
		To:      to,
		Subject: Subject,
		Text: fmt.Sprintf("Budget Alert: You've spent %s on %s, exceeding your budget of %s",
			data.Spent, data.Category, data.Limit),
		HTML: html.String(),
	}, nil
}

func (s Settings) amount(m core.Money) string {
	return s.CurrencySymbol + m.String()
}

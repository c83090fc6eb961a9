// internal/workers/communication/send-score-notification/templates.go
package sendscorenotification

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"career-workers/internal/models"
)

var templates = map[string]models.NotificationTemplate{
	TypeScoreReady: {
		Type:    TypeScoreReady,
		Subject: "Your career readiness score: {{.Score}}/100",
		Body: `Hi {{.Name}},

Your career readiness score is {{.Score}}/100.
{{if .Strengths}}
Strengths:
{{range .Strengths}}  - {{.}}
{{end}}{{end}}{{if .Improvements}}
Next steps:
{{range .Improvements}}  - {{.}}
{{end}}{{end}}`,
	},
	TypeScoreLow: {
		Type: TypeScoreLow,
		Body: "Hi {{.Name}}, your career readiness score is {{.Score}}/100. Log in to see the steps that will raise it.",
	},
}

const emailHTML = `<p>Hi {{.Name}},</p>
<p>Your career readiness score is <strong>{{.Score}}/100</strong>.</p>
{{if .Strengths}}<p>Strengths:</p><ul>{{range .Strengths}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Improvements}}<p>Next steps:</p><ul>{{range .Improvements}}<li>{{.}}</li>{{end}}</ul>{{end}}`

var htmlTemplate = htmltemplate.Must(htmltemplate.New("score_ready_html").Parse(emailHTML))

type templateData struct {
	Name         string
	Score        int
	Strengths    []string
	Improvements []string
}

func render(text string, data templateData) (string, error) {
	t, err := template.New("notification").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(data templateData) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

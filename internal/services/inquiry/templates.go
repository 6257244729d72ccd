package inquiry

import (
	"html/template"
	"strings"

	"github.com/wrenlabs/slate/internal/models"
)

// Email bodies are intentionally plain: a heading, the submitted fields,
// and a short sign-off. Marketing-grade templates live with the provider.

var adminTemplate = template.Must(template.New("admin").Parse(`<div style="font-family:sans-serif">
<h2>New {{.VariantLabel}}</h2>
<table cellpadding="4">
<tr><td><b>Name</b></td><td>{{.Record.Name}}</td></tr>
<tr><td><b>Email</b></td><td>{{.Record.Email}}</td></tr>
{{if .Record.Phone}}<tr><td><b>Phone</b></td><td>{{.Record.Phone}}</td></tr>{{end}}
{{if .Record.Company}}<tr><td><b>Company</b></td><td>{{.Record.Company}}</td></tr>{{end}}
{{if .Record.ProjectType}}<tr><td><b>Project type</b></td><td>{{.Record.ProjectType}}</td></tr>{{end}}
{{if .Record.Budget}}<tr><td><b>Budget</b></td><td>{{.Record.Budget}}</td></tr>{{end}}
{{if .Platforms}}<tr><td><b>Platforms</b></td><td>{{.Platforms}}</td></tr>{{end}}
{{if .Record.Goals}}<tr><td><b>Goals</b></td><td>{{.Record.Goals}}</td></tr>{{end}}
{{if .Record.Message}}<tr><td><b>Message</b></td><td>{{.Record.Message}}</td></tr>{{end}}
</table>
<p>Received {{.Record.CreatedAt.Format "2 Jan 2006 15:04 MST"}} ({{.Record.ID}})</p>
</div>`))

var userTemplate = template.Must(template.New("user").Parse(`<div style="font-family:sans-serif">
<h2>Hi {{.Record.Name}},</h2>
<p>Thanks for reaching out — we received your {{.VariantLabel}} and will get
back to you within one business day.</p>
{{if .Record.Message}}<p>Your message:</p><blockquote>{{.Record.Message}}</blockquote>{{end}}
<p>— The Slate team</p>
</div>`))

type emailData struct {
	Record       *models.Inquiry
	VariantLabel string
	Platforms    string
}

func newEmailData(record *models.Inquiry) emailData {
	label := "contact message"
	switch record.Variant {
	case models.InquiryVariantDevelopment:
		label = "development inquiry"
	case models.InquiryVariantSMM:
		label = "SMM inquiry"
	}
	return emailData{
		Record:       record,
		VariantLabel: label,
		Platforms:    strings.Join(record.Platforms, ", "),
	}
}

func renderAdminEmail(record *models.Inquiry) string {
	var b strings.Builder
	if err := adminTemplate.Execute(&b, newEmailData(record)); err != nil {
		return ""
	}
	return b.String()
}

func renderUserEmail(record *models.Inquiry) string {
	var b strings.Builder
	if err := userTemplate.Execute(&b, newEmailData(record)); err != nil {
		return ""
	}
	return b.String()
}

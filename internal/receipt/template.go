// Package receipt renders submission receipts for applicants.
package receipt

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/campushire/faculty-portal/internal/lifecycle"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"join": func(s []string) string { return strings.Join(s, ", ") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Application Receipt {{.ApplicationNumber}}</title>
<style>
  body { font-family: Georgia, serif; margin: 2.5em; color: #1a1a1a; }
  h1 { font-size: 1.4em; border-bottom: 2px solid #1a1a1a; padding-bottom: 0.3em; }
  table { border-collapse: collapse; margin-top: 1.5em; }
  td { padding: 0.35em 1.2em 0.35em 0; vertical-align: top; }
  td.label { font-weight: bold; white-space: nowrap; }
  .footer { margin-top: 3em; font-size: 0.85em; color: #555; }
</style>
</head>
<body>
<h1>Faculty Application Receipt</h1>
<table>
  <tr><td class="label">Application Number</td><td>{{.ApplicationNumber}}</td></tr>
  <tr><td class="label">Applicant</td><td>{{.ApplicantName}}</td></tr>
  {{- if .ApplicantEmail}}
  <tr><td class="label">Email</td><td>{{.ApplicantEmail}}</td></tr>
  {{- end}}
  <tr><td class="label">Position</td><td>{{.JobTitle}}</td></tr>
  {{- if .Department}}
  <tr><td class="label">Department</td><td>{{.Department}}</td></tr>
  {{- end}}
  <tr><td class="label">Submitted</td><td>{{.SubmittedAt.Format "02 Jan 2006 15:04 MST"}}</td></tr>
  <tr><td class="label">Credit Points Claimed</td><td>{{printf "%.2f" .GrandTotal}}</td></tr>
  <tr><td class="label">Sections Completed</td><td>{{join .SectionTypes}}</td></tr>
</table>
<p class="footer">This receipt confirms submission only. Verification of claimed
credentials is carried out during review and may revise the credit total.</p>
</body>
</html>`))

// RenderHTML produces the receipt document as HTML.
func RenderHTML(snap lifecycle.ReceiptSnapshot) (string, error) {
	var b strings.Builder
	if err := receiptTmpl.Execute(&b, snap); err != nil {
		return "", fmt.Errorf("failed to render receipt template: %w", err)
	}
	return b.String(), nil
}

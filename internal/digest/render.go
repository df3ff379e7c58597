package digest

import (
	"html/template"
	"strings"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
)

var emailTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;color:#18181b;max-width:600px;margin:0 auto;padding:24px;">
  <h1 style="color:#1d4ed8;font-size:24px;margin-bottom:4px;">NAV Meal Planner</h1>
  <p style="color:#71717a;margin-top:0;">North Avenue Dining Hall &mdash; Georgia Tech</p>
  <p>Hey {{if .Name}}{{.Name}}{{else}}there{{end}}! Here are your personalized meal recommendations for <strong>{{.Date}}</strong>:</p>
{{- if .Plan}}
{{- range .Meals}}
  <h2 style="color:#b59410;margin:24px 0 8px;font-size:20px;">&#127869;&#65039; {{.Label}}</h2>
  <table style="width:100%;border-collapse:collapse;font-size:14px;">
    <thead>
      <tr style="background:#f4f4f5;">
        <th style="padding:8px 12px;text-align:left;">Item</th>
        <th style="padding:8px 12px;text-align:left;">Qty</th>
        <th style="padding:8px 12px;text-align:right;">Cal</th>
        <th style="padding:8px 12px;text-align:right;">Protein</th>
      </tr>
    </thead>
    <tbody>
{{- range .Plan.MealPlan}}
      <tr>
        <td style="padding:6px 12px;border-bottom:1px solid #e4e4e7;">{{.Name}}</td>
        <td style="padding:6px 12px;border-bottom:1px solid #e4e4e7;">{{.Quantity}}</td>
        <td style="padding:6px 12px;border-bottom:1px solid #e4e4e7;text-align:right;">{{.Calories}}</td>
        <td style="padding:6px 12px;border-bottom:1px solid #e4e4e7;text-align:right;">{{.Protein}}g</td>
      </tr>
{{- end}}
    </tbody>
    <tfoot>
      <tr style="font-weight:bold;background:#f4f4f5;">
        <td style="padding:8px 12px;" colspan="2">Total</td>
        <td style="padding:8px 12px;text-align:right;">{{.Plan.Totals.Calories}} cal</td>
        <td style="padding:8px 12px;text-align:right;">{{.Plan.Totals.Protein}}g</td>
      </tr>
    </tfoot>
  </table>
{{- if .Plan.Extras}}
  <p style="margin:12px 0 4px;font-size:13px;font-weight:600;color:#71717a;">Good Add-Ons &amp; Alternatives</p>
  <table style="width:100%;border-collapse:collapse;font-size:13px;">
    <tbody>
{{- range .Plan.Extras}}
      <tr>
        <td style="padding:4px 12px;border-bottom:1px solid #e4e4e7;color:#3b82f6;">{{.Name}}</td>
        <td style="padding:4px 12px;border-bottom:1px solid #e4e4e7;">{{.Quantity}}</td>
        <td style="padding:4px 12px;border-bottom:1px solid #e4e4e7;text-align:right;">{{.Calories}} cal</td>
        <td style="padding:4px 12px;border-bottom:1px solid #e4e4e7;text-align:right;">{{.Protein}}g P</td>
      </tr>
{{- end}}
    </tbody>
  </table>
{{- end}}
{{- end}}
  <div style="margin-top:20px;padding:12px;background:#eff6ff;border-radius:8px;">
    <strong style="color:#1d4ed8;">Full Day Totals:</strong>
    <span style="margin-left:12px;">{{.Plan.DayTotals.Calories}} cal</span>
    <span style="margin-left:12px;">{{.Plan.DayTotals.Protein}}g protein</span>
    <span style="margin-left:12px;">{{.Plan.DayTotals.Carbs}}g carbs</span>
    <span style="margin-left:12px;">{{.Plan.DayTotals.Fat}}g fat</span>
  </div>
{{- else}}
  <p>No menu data available for tomorrow yet. Check back later!</p>
{{- end}}
  <hr style="border:none;border-top:1px solid #e4e4e7;margin:32px 0 16px;">
  <p style="color:#a1a1aa;font-size:12px;">You're receiving this because you opted in on the NAV Meal Planner. Visit the site to update your preferences.</p>
</body>
</html>`))

type emailData struct {
	Name  string
	Date  string
	Plan  *models.DayPlan
	Meals []models.LabelledMeal
}

// renderHTML produces the digest email body. A nil plan renders the
// "no menu data yet" notice.
func renderHTML(name string, targetDate time.Time, plan *models.DayPlan) (string, error) {
	data := emailData{
		Name: name,
		Date: targetDate.Format("Monday, January 2, 2006"),
		Plan: plan,
	}
	if plan != nil {
		data.Meals = plan.Meals()
	}

	var b strings.Builder
	if err := emailTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReceiptEmailData holds data for contribution receipt emails.
type ReceiptEmailData struct {
	ChurchName string
	MemberName string
	Amount     string // formatted, e.g. "$125.00"
	FundName   string
	Method     string // e.g. "check"
	GivenOn    string // e.g. "March 9, 2025"
}

// BuildReceiptEmail creates a contribution receipt with both HTML and text bodies.
func BuildReceiptEmail(data ReceiptEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Your %s giving receipt", data.ChurchName),
		TextBody: buildReceiptText(data),
		HTMLBody: buildReceiptHTML(data),
	}
}

func buildReceiptText(data ReceiptEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.MemberName))
	buf.WriteString(fmt.Sprintf("Thank you for your gift to %s.\n\n", data.ChurchName))
	buf.WriteString(fmt.Sprintf("Amount:  %s\n", data.Amount))
	buf.WriteString(fmt.Sprintf("Fund:    %s\n", data.FundName))
	buf.WriteString(fmt.Sprintf("Method:  %s\n", data.Method))
	buf.WriteString(fmt.Sprintf("Date:    %s\n\n", data.GivenOn))
	buf.WriteString("Please keep this receipt for your records.\n")
	return buf.String()
}

func buildReceiptHTML(data ReceiptEmailData) string {
	tmpl := template.Must(template.New("receipt").Parse(receiptHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// VolunteerNoticeEmailData holds data for volunteer assignment notices.
type VolunteerNoticeEmailData struct {
	ChurchName string
	MemberName string
	EventTitle string
	Task       string
	StartsAt   string // e.g. "Sunday, March 9 at 9:00 AM"
	Location   string
}

// BuildVolunteerNoticeEmail creates an assignment notice with both HTML and text bodies.
func BuildVolunteerNoticeEmail(data VolunteerNoticeEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("You're scheduled to serve: %s", data.EventTitle),
		TextBody: buildVolunteerText(data),
		HTMLBody: buildVolunteerHTML(data),
	}
}

func buildVolunteerText(data VolunteerNoticeEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.MemberName))
	buf.WriteString(fmt.Sprintf("You have been scheduled to serve at %s.\n\n", data.EventTitle))
	buf.WriteString(fmt.Sprintf("Task:     %s\n", data.Task))
	buf.WriteString(fmt.Sprintf("When:     %s\n", data.StartsAt))
	if data.Location != "" {
		buf.WriteString(fmt.Sprintf("Where:    %s\n", data.Location))
	}
	buf.WriteString("\nIf you cannot serve at this time, please contact the church office.\n")
	return buf.String()
}

func buildVolunteerHTML(data VolunteerNoticeEmailData) string {
	tmpl := template.Must(template.New("volunteer").Parse(volunteerHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const receiptHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Giving Receipt</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.ChurchName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Dear {{.MemberName}}, thank you for your gift.
              </p>

              <!-- Amount Box -->
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 32px; font-weight: 700; color: #1f2937;">{{.Amount}}</span>
              </div>

              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="font-size: 14px; color: #374151;">
                <tr>
                  <td style="padding: 8px 0; color: #6b7280;">Fund</td>
                  <td style="padding: 8px 0; text-align: right;">{{.FundName}}</td>
                </tr>
                <tr>
                  <td style="padding: 8px 0; color: #6b7280;">Method</td>
                  <td style="padding: 8px 0; text-align: right;">{{.Method}}</td>
                </tr>
                <tr>
                  <td style="padding: 8px 0; color: #6b7280;">Date</td>
                  <td style="padding: 8px 0; text-align: right;">{{.GivenOn}}</td>
                </tr>
              </table>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                Please keep this receipt for your records.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const volunteerHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Volunteer Assignment</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.ChurchName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Dear {{.MemberName}}, you have been scheduled to serve at <strong>{{.EventTitle}}</strong>.
              </p>

              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="font-size: 14px; color: #374151;">
                <tr>
                  <td style="padding: 8px 0; color: #6b7280;">Task</td>
                  <td style="padding: 8px 0; text-align: right;">{{.Task}}</td>
                </tr>
                <tr>
                  <td style="padding: 8px 0; color: #6b7280;">When</td>
                  <td style="padding: 8px 0; text-align: right;">{{.StartsAt}}</td>
                </tr>
                {{if .Location}}
                <tr>
                  <td style="padding: 8px 0; color: #6b7280;">Where</td>
                  <td style="padding: 8px 0; text-align: right;">{{.Location}}</td>
                </tr>
                {{end}}
              </table>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you cannot serve at this time, please contact the church office.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

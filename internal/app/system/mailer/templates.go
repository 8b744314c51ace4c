// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// VerificationEmailData holds data for verification email templates.
type VerificationEmailData struct {
	SiteName   string
	Code       string
	VerifyLink string
	ExpiresIn  string // e.g., "10 minutes"
}

// BuildVerificationEmail creates a verification email with both HTML and text bodies.
func BuildVerificationEmail(data VerificationEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Your %s verification code", data.SiteName),
		TextBody: buildVerificationText(data),
		HTMLBody: buildActionHTML(actionEmailData{
			SiteName:   data.SiteName,
			Intro:      "Your verification code is:",
			Code:       data.Code,
			ButtonText: "Verify Email",
			ButtonLink: data.VerifyLink,
			Expiry:     fmt.Sprintf("This code expires in %s.", data.ExpiresIn),
			Footer:     "If you did not request this code, you can safely ignore this email.",
		}),
	}
}

func buildVerificationText(data VerificationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Your %s verification code is: %s\n\n", data.SiteName, data.Code))
	buf.WriteString("Or click this link to verify your email:\n")
	buf.WriteString(data.VerifyLink + "\n\n")
	buf.WriteString(fmt.Sprintf("This code expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not request this code, you can safely ignore this email.\n")
	return buf.String()
}

// PasswordResetEmailData holds data for password reset email templates.
type PasswordResetEmailData struct {
	SiteName  string
	ResetLink string
	ExpiresIn string
}

// BuildPasswordResetEmail creates a password reset email with both HTML and text bodies.
func BuildPasswordResetEmail(data PasswordResetEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildPasswordResetText(data),
		HTMLBody: buildActionHTML(actionEmailData{
			SiteName:   data.SiteName,
			Intro:      "We received a request to reset your password. Click the button below to choose a new one.",
			ButtonText: "Reset Password",
			ButtonLink: data.ResetLink,
			Expiry:     fmt.Sprintf("This link expires in %s.", data.ExpiresIn),
			Footer:     "If you did not request a password reset, you can safely ignore this email.",
		}),
	}
}

func buildPasswordResetText(data PasswordResetEmailData) string {
	var buf bytes.Buffer
	buf.WriteString("We received a request to reset your password.\n\n")
	buf.WriteString("Click this link to choose a new one:\n")
	buf.WriteString(data.ResetLink + "\n\n")
	buf.WriteString(fmt.Sprintf("This link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not request a password reset, you can safely ignore this email.\n")
	return buf.String()
}

// TeamInviteEmailData holds data for team invitation email templates.
type TeamInviteEmailData struct {
	SiteName    string
	InviterName string
	OrgName     string
	AcceptLink  string
}

// BuildTeamInviteEmail creates a team invitation email with both HTML and text bodies.
func BuildTeamInviteEmail(data TeamInviteEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("%s invited you to join %s on %s", data.InviterName, data.OrgName, data.SiteName),
		TextBody: buildTeamInviteText(data),
		HTMLBody: buildActionHTML(actionEmailData{
			SiteName:   data.SiteName,
			Intro:      fmt.Sprintf("%s invited you to join the %s team.", data.InviterName, data.OrgName),
			ButtonText: "Accept Invitation",
			ButtonLink: data.AcceptLink,
			Footer:     "If you were not expecting this invitation, you can safely ignore this email.",
		}),
	}
}

func buildTeamInviteText(data TeamInviteEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s invited you to join the %s team on %s.\n\n", data.InviterName, data.OrgName, data.SiteName))
	buf.WriteString("Click this link to accept:\n")
	buf.WriteString(data.AcceptLink + "\n\n")
	buf.WriteString("If you were not expecting this invitation, you can safely ignore this email.\n")
	return buf.String()
}

// actionEmailData feeds the shared HTML layout: an optional code box, a call
// to action button, and footer text.
type actionEmailData struct {
	SiteName   string
	Intro      string
	Code       string
	ButtonText string
	ButtonLink string
	Expiry     string
	Footer     string
}

func buildActionHTML(data actionEmailData) string {
	tmpl := template.Must(template.New("action").Parse(actionHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const actionHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                {{.Intro}}
              </p>

              {{if .Code}}
              <!-- Code Box -->
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 32px; font-weight: 700; letter-spacing: 8px; color: #1f2937; font-family: 'Courier New', monospace;">{{.Code}}</span>
              </div>
              {{end}}

              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.ButtonLink}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      {{.ButtonText}}
                    </a>
                  </td>
                </tr>
              </table>

              {{if .Expiry}}
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                {{.Expiry}}
              </p>
              {{end}}
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                {{.Footer}}
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
)

// Content is a rendered email ready to be wrapped in a Message.
type Content struct {
	Subject  string
	TextBody string
	HTMLBody string
}

const footerText = `
---
This is an automated message. Please do not reply.
InfiniteDb Team
`

const htmlLayout = `{{define "layout"}}<html>
  <body style="font-family:sans-serif; background:#f6f8fa; padding:32px;">
    <div style="max-width:480px; margin:auto; background:#fff; border-radius:8px; box-shadow:0 2px 8px #e0e0e0; padding:32px 24px;">
      <h2 style="color:#234AA6; margin-top:0">{{.Title}}</h2>
      {{template "content" .}}
      <div style="margin-top:32px; text-align:center;">
        <span style="color:#234AA6; font-weight:bold; font-size:1.2em;">InfiniteDb Team</span>
      </div>
    </div>
  </body>
</html>{{end}}`

type templateSet struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func newTemplateSet(subject, text, htmlContent string) templateSet {
	return templateSet{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New("text").Parse(strings.TrimLeft(text, "\n") + footerText)),
		html:    htmltemplate.Must(htmltemplate.Must(htmltemplate.New("html").Parse(htmlLayout)).New("content").Parse(htmlContent)),
	}
}

var (
	verificationTemplate = newTemplateSet("Your verification code", `
Your InfiniteDb verification code:

{{.Code}}

Enter this code to verify your email address.

If you did not request this code, you can ignore this email.
`, `<div style="font-size:2em; letter-spacing:2px; font-weight:bold; color:#234AA6; margin:24px 0 28px 0; text-align:center;">{{.Code}}</div>
      <p style="color:#222; font-size:1.05em;">Enter this code to verify your email address.</p>`)

	welcomeTemplate = newTemplateSet("Welcome to InfiniteDb!", `
Welcome to InfiniteDb!
Your account is now activated.

If you have any questions, visit our support.
`, `<p style="font-size:1.1em; color:#222;">Your account is now activated.</p>`)

	passwordResetTemplate = newTemplateSet("Reset your password", `
You requested a password reset for your InfiniteDb account.

To reset your password, use this link:
{{.Link}}

If you did not request a password reset, you can ignore this email.
`, `<p style="color:#222; font-size:1.05em;">Click the link below to reset your password:</p>
      <div style="margin:24px 0 28px 0; text-align:center;">
        <a href="{{.Link}}" style="background:#234AA6; color:#fff; padding:12px 32px; border-radius:6px; text-decoration:none; font-weight:bold;">Reset Password</a>
      </div>
      <p style="color:#888; font-size:0.95em;">If you did not request a password reset, you can ignore this email.</p>`)

	accountDeletedTemplate = newTemplateSet("Your InfiniteDb account has been deleted", `
Your InfiniteDb account has been deleted.

If this was not you, please contact our support immediately.
`, `<p style="color:#222; font-size:1.05em;">If this was not you, please contact our support immediately.</p>`)
)

type templateData struct {
	Title string
	Code  string
	Link  string
}

func (ts templateSet) render(data templateData) (Content, error) {
	if data.Title == "" {
		data.Title = ts.subject
	}
	var text, html bytes.Buffer
	if err := ts.text.Execute(&text, data); err != nil {
		return Content{}, fmt.Errorf("render %q text: %w", ts.subject, err)
	}
	if err := ts.html.ExecuteTemplate(&html, "layout", data); err != nil {
		return Content{}, fmt.Errorf("render %q html: %w", ts.subject, err)
	}
	return Content{Subject: ts.subject, TextBody: text.String(), HTMLBody: html.String()}, nil
}

func VerificationEmail(code string) (Content, error) {
	return verificationTemplate.render(templateData{Title: "Your InfiniteDb verification code", Code: code})
}

func WelcomeEmail() (Content, error) {
	return welcomeTemplate.render(templateData{})
}

// PasswordResetEmail links to resetURL with the token in the "token" query parameter.
func PasswordResetEmail(resetURL, token string) (Content, error) {
	link, err := ResetLink(resetURL, token)
	if err != nil {
		return Content{}, err
	}
	return passwordResetTemplate.render(templateData{Link: link})
}

func AccountDeletedEmail() (Content, error) {
	return accountDeletedTemplate.render(templateData{})
}

func ResetLink(resetURL, token string) (string, error) {
	u, err := url.Parse(resetURL)
	if err != nil {
		return "", fmt.Errorf("reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

package notify

import (
	"bytes"
	"html/template"
	"time"
)

const (
	SubjectVerification  = "Verify Your Account"
	SubjectPasswordReset = "Reset Password"
)

var verificationTmpl = template.Must(template.New("verification").Parse(
	`<p>Your verification code is <b>{{.Code}}</b>.</p>
<p>It expires in {{.Minutes}} minutes.</p>`))

var resetTmpl = template.Must(template.New("reset").Parse(
	`<p>You asked to reset your password. Follow the link below to choose a new one:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in {{.Minutes}} minutes. If you did not ask for this, ignore this email.</p>`))

// VerificationMessage builds the OTP email for to.
func VerificationMessage(to, code string, ttl time.Duration) (Message, error) {
	body, err := render(verificationTmpl, map[string]any{"Code": code, "Minutes": minutes(ttl)})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectVerification, Body: body, Kind: KindVerification}, nil
}

// PasswordResetMessage builds the reset email carrying link.
func PasswordResetMessage(to, link string, ttl time.Duration) (Message, error) {
	body, err := render(resetTmpl, map[string]any{"Link": link, "Minutes": minutes(ttl)})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectPasswordReset, Body: body, Kind: KindPasswordReset}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func minutes(d time.Duration) int {
	m := int(d / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

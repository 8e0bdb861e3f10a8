package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password
	if from == "" || password == "" {
		return fmt.Errorf("email sender is not configured")
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// SendCertificateEmail congratulates a student on completing a course
func SendCertificateEmail(email, name, courseTitle, serialNumber string) error {
	subject := fmt.Sprintf("Certificate issued: %s", courseTitle)

	body := fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
				<h2 style="color: #333333; text-align: center;">Congratulations, %s!</h2>
				<p style="font-size: 16px; color: #555555;">You have completed <strong>%s</strong>.</p>
				<p style="font-size: 16px; color: #555555;">Your certificate number is:</p>
				<h3 style="text-align: center; color: #4CAF50;">%s</h3>
				<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Keep learning!</p>
			</div>
		</body>
	</html>
	`, name, courseTitle, serialNumber)

	return SendEmail([]string{email}, subject, body)
}

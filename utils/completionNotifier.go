package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/go-resty/resty/v2"
)

// InitializeCompletionNotifier hooks certificate issuance into the webhook
// and email notifications. Both are best effort: a failed notification is
// logged and never affects the completed enrollment.
func InitializeCompletionNotifier() {
	services.OnCertificateIssued = func(cert courseModels.Certificate, enrollment courseModels.Enrollment) {
		notifyWebhook(cert, enrollment)
		notifyEmail(cert)
	}
	log.Println("[NOTIFIER] Completion notifier registered")
}

func notifyWebhook(cert courseModels.Certificate, enrollment courseModels.Enrollment) {
	url := config.AppConfig.CompletionWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":         "certificate.issued",
			"serial_number": cert.SerialNumber,
			"user_id":       cert.UserID,
			"course_id":     cert.CourseID,
			"enrollment_id": cert.EnrollmentID,
			"issued_at":     cert.IssuedAt,
			"progress":      enrollment.Progress,
		}).
		Post(url)
	if err != nil {
		log.Printf("[NOTIFIER] Webhook delivery failed for %s: %v", cert.SerialNumber, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("[NOTIFIER] Webhook for %s returned status %d", cert.SerialNumber, resp.StatusCode())
	}
}

func notifyEmail(cert courseModels.Certificate) {
	var user models.User
	if err := database.Database.Db.Where("id = ?", cert.UserID).First(&user).Error; err != nil {
		return
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", cert.CourseID).First(&course).Error; err != nil {
		return
	}

	if err := SendCertificateEmail(user.Email, user.Name, course.Title, cert.SerialNumber); err != nil {
		log.Printf("[NOTIFIER] Certificate email to %s failed: %v", user.Email, err)
	}
}

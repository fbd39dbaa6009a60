package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordEmail("generic", "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail("generic", "sent")
	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendSessionConfirmation(ctx context.Context, email, name, trainerName, date, startTime string) error {
	subject := "Training Session Confirmed"
	body := fmt.Sprintf(`Hi %s,

Your training session is confirmed!

Trainer: %s
Date: %s
Time: %s

See you at the gym!

- GymPro Team`, name, trainerName, date, startTime)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendSessionReminder(ctx context.Context, email, name, trainerName, date, startTime string) error {
	subject := "Reminder: Training Session Tomorrow"
	body := fmt.Sprintf(`Hi %s,

This is a reminder about your training session tomorrow:

Trainer: %s
Date: %s
Time: %s

See you soon!

- GymPro Team`, name, trainerName, date, startTime)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendMembershipExpiryReminder(ctx context.Context, email, name, endDate string, daysLeft int) error {
	subject := fmt.Sprintf("Your membership expires in %d day(s)", daysLeft)
	body := fmt.Sprintf(`Hi %s,

Your gym membership expires on %s.

Renew now to keep access to the gym and your training sessions.

- GymPro Team`, name, endDate)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendPaymentConfirmation(ctx context.Context, email, name string, amount float64, invoiceNumber string) error {
	subject := "Payment Received - " + invoiceNumber
	body := fmt.Sprintf(`Hi %s,

We received your payment of $%.2f.

Invoice number: %s

Thank you!

- GymPro Team`, name, amount, invoiceNumber)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendPaymentReminder(ctx context.Context, email, name string, amount float64, dueDate string) error {
	subject := "Payment Reminder"
	body := fmt.Sprintf(`Hi %s,

You have a pending payment of $%.2f due by %s.

Please complete it to keep your account in good standing.

- GymPro Team`, name, amount, dueDate)

	return s.Send(ctx, email, name, subject, body)
}

package smtp

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net"
	smtpPkg "net/smtp"
	"strconv"
	"strings"
	"time"
)

var ErrDisabled = errors.New("smtp credentials are not configured")

type ItfSmtp interface {
	SendCrowdReport(to string, report CrowdReport) error
	Enabled() bool
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// CrowdReport is what the report email shows. Density and FreeSpace are
// already formatted with the estimator's precision.
type CrowdReport struct {
	CameraURL   string
	Count       int
	Density     string
	FreeSpace   string
	Status      string
	HighCrowd   bool
	GeneratedAt time.Time
}

type sendFunc func(addr string, a smtpPkg.Auth, from string, to []string, msg []byte) error

type smtp struct {
	auth smtpPkg.Auth
	mail string
	addr string
	send sendFunc
}

func New(cfg Config) ItfSmtp {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	s := &smtp{
		mail: cfg.User,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		send: smtpPkg.SendMail,
	}
	if cfg.User != "" && cfg.Password != "" {
		s.auth = smtpPkg.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	return s
}

func (s *smtp) Enabled() bool {
	return s.auth != nil
}

func (s *smtp) SendCrowdReport(to string, report CrowdReport) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	subject, body, err := RenderCrowdReport(report)
	if err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.mail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := s.send(s.addr, s.auth, s.mail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("send crowd report: %w", err)
	}

	return nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<div style="font-family: Arial; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: {{.Color}}; text-align: center;">Crowd Analysis Report</h2>
  <div style="background: #f8f9fa; padding: 25px; border-radius: 12px; border-left: 5px solid {{.Color}};">
    <p><strong>Timestamp:</strong> {{.Timestamp}}</p>
    <p><strong>People Count:</strong> <span style="font-size: 1.4em;">{{.Count}}</span></p>
    <p><strong>Density:</strong> <span style="color: {{.Color}}; font-size: 1.4em; font-weight: bold;">{{.Density}}%</span></p>
    <p><strong>Free Space:</strong> {{.FreeSpace}}%</p>
    <p><strong>Status:</strong> <span style="color: {{.Color}}; font-size: 1.2em; font-weight: bold;">{{.Status}}</span></p>
    <hr>
    <p><strong>Camera URL:</strong><br><code>{{.CameraURL}}</code></p>
  </div>
  <p style="text-align: center; color: #666; margin-top: 20px;">Crowd Management System</p>
</div>
`))

// RenderCrowdReport returns the subject line and HTML body for report.
func RenderCrowdReport(report CrowdReport) (string, string, error) {
	color := "green"
	if report.HighCrowd {
		color = "red"
	}
	at := report.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}

	var body bytes.Buffer
	err := reportTemplate.Execute(&body, map[string]any{
		"Color":     template.CSS(color),
		"Timestamp": at.Format("2006-01-02 15:04:05"),
		"Count":     report.Count,
		"Density":   report.Density,
		"FreeSpace": report.FreeSpace,
		"Status":    report.Status,
		"CameraURL": report.CameraURL,
	})
	if err != nil {
		return "", "", fmt.Errorf("render crowd report: %w", err)
	}

	subject := fmt.Sprintf("Crowd Report - %s (%s%% density)", report.Status, report.Density)
	subject = strings.NewReplacer("\r", "", "\n", "").Replace(subject)

	return subject, body.String(), nil
}

// Package mail delivers the verification passcodes produced at signup.
// Delivery is behind an interface so the server keeps working when no SMTP
// relay is configured.
package mail

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/safar/medshop/internal/config"
)

// Sender delivers a one-time passcode to a retailer's email address.
type Sender interface {
	SendOTP(email, otp, shopName string) error
}

// SMTPSender sends passcode mail through a plain SMTP relay.
type SMTPSender struct {
	cfg    config.MailConfig
	otpTTL time.Duration
}

func NewSMTPSender(cfg config.MailConfig, otpTTL time.Duration) *SMTPSender {
	return &SMTPSender{cfg: cfg, otpTTL: otpTTL}
}

func otpMessage(from, to, shopName, otp string, ttl time.Duration) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: OTP for %s - Email Verification\r\n\r\nYour OTP is: %s\r\nIt will expire in %d minutes.\r\n",
		from, to, shopName, otp, int(ttl.Minutes()))
}

func (s *SMTPSender) SendOTP(email, otp, shopName string) error {
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	msg := otpMessage(s.cfg.From, email, shopName, otp, s.otpTTL)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// LogSender logs passcodes instead of mailing them. Used when SMTP_HOST is
// unset, typically in development.
type LogSender struct {
	log *logrus.Entry
}

func NewLogSender(log *logrus.Entry) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendOTP(email, otp, shopName string) error {
	s.log.WithFields(logrus.Fields{
		"email": email,
		"shop":  shopName,
		"otp":   otp,
	}).Info("OTP mail suppressed (no SMTP configured)")
	return nil
}

// New picks an SMTP sender when a host is configured, a log sender otherwise.
func New(cfg config.MailConfig, otpTTL time.Duration, log *logrus.Entry) Sender {
	if cfg.SMTPHost == "" {
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg, otpTTL)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/d60-Lab/dodam/internal/mail"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/pkg/response"
)

const certificationMailSubject = "dodam signup certification"

// EmailService 邮箱验证码：下发与核对
type EmailService interface {
	SendCertification(ctx context.Context, email string) error
	Certify(ctx context.Context, email, number string) error
}

type emailService struct {
	store  repository.CertificationStore
	sender mail.Sender
}

func NewEmailService(store repository.CertificationStore, sender mail.Sender) EmailService {
	return &emailService{store: store, sender: sender}
}

// SendCertification 生成 6 位验证码；新码写入即令旧码作废
func (s *emailService) SendCertification(ctx context.Context, email string) error {
	number := makeCertificationNumber()
	if err := s.store.Save(ctx, email, number); err != nil {
		return err
	}
	return s.sender.Send(email, certificationMailSubject, number)
}

// Certify 与在库验证码精确比对
func (s *emailService) Certify(ctx context.Context, email, number string) error {
	stored, err := s.store.Find(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoCertification) {
			return response.ErrCertificationMissing
		}
		return err
	}
	if stored != number {
		return response.ErrNumberNotMatched
	}
	return nil
}

// makeCertificationNumber 均匀取 [100000, 999999]
func makeCertificationNumber() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

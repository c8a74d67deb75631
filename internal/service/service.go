package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ecommerce-edge/internal/email"
	"ecommerce-edge/internal/export"
	"ecommerce-edge/internal/model"
	"ecommerce-edge/internal/service/config"
	"ecommerce-edge/internal/service/mailclient"
	"ecommerce-edge/internal/store"
)

type Service interface {
	ExportOrderCSV(ctx context.Context, orderID string, format string) (ExportResult, error)
	SendOrderEmail(ctx context.Context, orderID string, emailType string) (SendResult, error)
}

type ExportResult struct {
	CSV      string
	Filename string
}

type SendResult struct {
	Message   string
	Simulated bool
	// Preview carries the rendered content when the send was simulated.
	Preview *email.Content
}

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrOrderNotFound    = errors.New("order not found")
)

type service struct {
	cfg      config.Config
	store    store.Store
	renderer *email.Renderer
	mail     mailclient.MailClient
	zaplog   *zap.Logger
}

func NewService(cfg config.Config, store store.Store, mail mailclient.MailClient, zaplog *zap.Logger) Service {
	return &service{
		cfg:      cfg,
		store:    store,
		renderer: email.NewRenderer(cfg.SiteURL),
		mail:     mail,
		zaplog:   zaplog,
	}
}

func (service *service) ExportOrderCSV(ctx context.Context, orderID string, format string) (ExportResult, error) {
	if orderID == "" {
		return ExportResult{}, ErrInsufficientData
	}
	if format != export.FormatSimple {
		format = export.FormatDetailed
	}

	exp, err := service.store.OrderExportGet(ctx, orderID)
	if err != nil {
		if err == store.ErrNoRows {
			return ExportResult{}, ErrOrderNotFound
		}
		return ExportResult{}, err
	}

	now := time.Now()
	var csv string
	if format == export.FormatSimple {
		csv = export.RenderSimpleCSV(exp.Order, exp.Items)
	} else {
		csv = export.RenderDetailedCSV(exp, now)
	}

	// best-effort audit write, the export itself already succeeded
	err = service.store.OrderEventPost(ctx, model.OrderEvent{
		OrderID:     orderID,
		EventType:   model.EventTypeExportCSV,
		Description: fmt.Sprintf("CSV exported in %s format", format),
		Metadata: map[string]any{
			"format":      format,
			"items_count": len(exp.Items),
		},
	})
	if err != nil {
		service.zaplog.Warn("order event write failed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}

	filename := fmt.Sprintf("order_%s_%s.csv", shortID(orderID), now.Format("2006-01-02"))
	return ExportResult{CSV: csv, Filename: filename}, nil
}

func (service *service) SendOrderEmail(ctx context.Context, orderID string, emailType string) (SendResult, error) {
	if orderID == "" {
		return SendResult{}, ErrInsufficientData
	}
	kind := email.ParseKind(emailType)

	exp, err := service.store.OrderExportGet(ctx, orderID)
	if err != nil {
		if err == store.ErrNoRows {
			return SendResult{}, ErrOrderNotFound
		}
		return SendResult{}, err
	}

	content, err := service.renderer.Render(exp, kind)
	if err != nil {
		return SendResult{}, err
	}

	if service.cfg.MailAPIKey == "" {
		service.zaplog.Info("email simulated (mail provider not configured)",
			zap.String("to", exp.Customer.Email),
			zap.String("subject", content.Subject))
		return SendResult{
			Message:   "email simulated (mail provider not configured)",
			Simulated: true,
			Preview:   &content,
		}, nil
	}

	err = service.mail.Send(ctx, mailclient.Message{
		ToEmail: exp.Customer.Email,
		ToName:  exp.Customer.FullName,
		Subject: content.Subject,
		Text:    content.Text,
		HTML:    content.HTML,
	})
	if err != nil {
		return SendResult{}, err
	}

	err = service.store.OrderEventPost(ctx, model.OrderEvent{
		OrderID:     orderID,
		EventType:   model.EventTypeEmailSent,
		Description: fmt.Sprintf("%s email sent to %s", kind, exp.Customer.Email),
		Metadata: map[string]any{
			"email_type": string(kind),
			"recipient":  exp.Customer.Email,
		},
	})
	if err != nil {
		service.zaplog.Warn("order event write failed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}

	return SendResult{Message: "email sent successfully"}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

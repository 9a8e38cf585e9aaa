package main

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/wneessen/go-mail"
)

const (
	mailQueue          = "email_queue"
	resultTemplatePath = "./templates/scheduling_result_email.html"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("mail worker 异常退出", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("无法读取配置: %w", err)
	}

	client, err := newMailClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	resultTmpl, err := template.ParseFiles(resultTemplatePath)
	if err != nil {
		return fmt.Errorf("无法解析邮件模板: %w", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		return fmt.Errorf("无法连接到 RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("无法创建通道: %w", err)
	}
	defer ch.Close()

	// 与 cmd/api 中的声明保持一致：持久化、不自动删除、不独占
	q, err := ch.QueueDeclare(mailQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("无法声明队列: %w", err)
	}

	// 手动确认，发送成功后才 ack
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("无法消费消息: %w", err)
	}

	w := &worker{
		from:       cfg.Email.SMTP.Username,
		resultTmpl: resultTmpl,
		send: func(m *mail.Msg) error {
			return client.DialAndSend(m)
		},
		logger: logger,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.run(ctx, deliveries)
	}()

	logger.Info("等待排班结果邮件...（按 CTRL+C 退出）")
	<-sigChan

	logger.Info("正在关闭 mail worker...")
	cancel()
	wg.Wait()
	logger.Info("mail worker 已成功关闭")
	return nil
}

// newMailClient 创建 SMTP 客户端并立即尝试连接，尽早发现配置错误
func newMailClient(cfg *config.Config) (*mail.Client, error) {
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("无法创建邮件客户端: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("无法连接到邮件服务器: %w", err)
	}
	return client, nil
}

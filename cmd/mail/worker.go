package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// errSend 表示邮件已经构建好但发送失败，这类消息需要重新入队
var errSend = errors.New("邮件发送失败")

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple bool, requeue bool) error
}

type worker struct {
	from       string
	resultTmpl *template.Template
	send       func(*mail.Msg) error
	logger     *slog.Logger
}

// run 持续消费消息，直到 ctx 被取消或者消息通道被关闭
func (w *worker) run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				w.logger.Error("消息通道已关闭")
				return
			}
			w.handle(d.Body, d)
		}
	}
}

// handle 发送一条邮件消息；消息本身有问题时直接丢弃，发送失败时重新入队
func (w *worker) handle(body []byte, ack acknowledger) {
	err := w.deliver(body)
	switch {
	case err == nil:
		_ = ack.Ack(false)
	case errors.Is(err, errSend):
		w.logger.Error("邮件发送失败，消息重新入队", "error", err)
		_ = ack.Nack(false, true)
	default:
		w.logger.Error("无法处理邮件消息", "error", err, "body", string(body))
		_ = ack.Nack(false, false)
	}
}

func (w *worker) deliver(body []byte) error {
	m, err := w.buildMessage(body)
	if err != nil {
		return err
	}
	if err := w.send(m); err != nil {
		return fmt.Errorf("%w: %v", errSend, err)
	}
	return nil
}

func (w *worker) buildMessage(body []byte) (*mail.Msg, error) {
	var message domain.MailMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(w.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(message.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch message.Type {
	case "scheduling_result":
		// Data 反序列化后是 map，需要重新解析成具体的类型
		var data domain.SchedulingResultMailData
		if err := remarshal(message.Data, &data); err != nil {
			return nil, fmt.Errorf("无法解析排班结果邮件数据: %w", err)
		}
		if err := m.SetBodyHTMLTemplate(w.resultTmpl, data); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		m.Subject(fmt.Sprintf("节目排班系统 - %s 排班结果", data.RatingTableName))
	default:
		return nil, fmt.Errorf("不支持的邮件类型 %q", message.Type)
	}

	return m, nil
}

func remarshal(src any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

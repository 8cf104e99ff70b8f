package service

import (
	"github.com/sirupsen/logrus"
)

// Notifier 出站通知协作方
// 核心只发不等,不重试
type Notifier interface {
	SendPasswordReset(email, token string)
}

// logNotifier 基于日志的通知实现
// 生产环境可替换为真实邮件网关
type logNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *logrus.Logger) Notifier {
	return &logNotifier{logger: logger}
}

// SendPasswordReset 发送密码重置链接
func (n *logNotifier) SendPasswordReset(email, token string) {
	n.logger.WithFields(logrus.Fields{
		"email": email,
		"link":  "https://dewlist.example.com/reset-password?token=" + token,
	}).Info("password reset email queued")
}

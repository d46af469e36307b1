package service

import (
	"bytes"
	"fmt"
	"net/smtp"
	"os"
	"time"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/jordan-wright/email"
	"github.com/yuin/goldmark"
)

// SendUsageReportTask mails the previous day's usage summary. Skipped when
// SMTP is not configured.
func SendUsageReportTask() error {
	logger.Infof("[%s] Start scheduled task SendUsageReportTask", "scheduled task")

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		logger.Infof("[%s] SMTP_HOST not set, skipping usage report", "scheduled task")
		return nil
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.Add(-24 * time.Hour)

	stats, failures, err := model.GetUsageSummaryBetween(yesterday, today)
	if err != nil {
		logger.Warnf("[%s] usage aggregation error, %s", "scheduled task", err)
		return err
	}

	report := fmt.Sprintf(
		"# ChatFlow usage report for %s\n\n"+
			"- Total requests: **%d**\n"+
			"- Failed requests: **%d**\n"+
			"- Tokens used: **%d**\n"+
			"- Average response time: **%.2f ms**\n",
		yesterday.Format("2006-01-02"),
		stats.TotalRequests,
		failures,
		stats.TotalTokensUsed,
		stats.AverageResponseTimeMS,
	)

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(report), &html); err != nil {
		logger.Warnf("[%s] report render error, %s", "scheduled task", err)
		return err
	}

	e := email.NewEmail()
	e.From = os.Getenv("SMTP_FROM")
	e.To = []string{os.Getenv("REPORT_TO")}
	e.Subject = fmt.Sprintf("ChatFlow usage report %s", yesterday.Format("2006-01-02"))
	e.Text = []byte(report)
	e.HTML = html.Bytes()

	addr := fmt.Sprintf("%s:%s", host, os.Getenv("SMTP_PORT"))
	auth := smtp.PlainAuth("", os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"), host)
	if err := e.Send(addr, auth); err != nil {
		logger.Warnf("[%s] send report mail error, %s", "scheduled task", err)
		return err
	}

	logger.Infof("[%s] Finished scheduled task SendUsageReportTask", "scheduled task")
	return nil
}

// PurgeGuestDataTask deletes guest conversations idle longer than the
// session lifetime. Guest sessions expire anyway; their data follows.
func PurgeGuestDataTask() error {
	logger.Infof("[%s] Start scheduled task PurgeGuestDataTask", "scheduled task")

	cutoff := time.Now().Add(-sessionTTL)
	removed, err := model.DeleteGuestConversationsBefore(cutoff)
	if err != nil {
		logger.Warnf("[%s] guest purge error, %s", "scheduled task", err)
		return err
	}

	logger.Infof("[%s] Finished scheduled task PurgeGuestDataTask, removed %d conversations", "scheduled task", removed)
	return nil
}

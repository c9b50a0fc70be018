package overdueworker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cpm-backend/config"
	"cpm-backend/db"
	issuehandler "cpm-backend/lib/issue"
	issuestore "cpm-backend/lib/issue/store"
	projectstore "cpm-backend/lib/project/store"
	"cpm-backend/lib/smtp"
	baseworker "cpm-backend/lib/utils/base-worker"
	"cpm-backend/lib/utils/helpers"
	issueapimodels "cpm-backend/models/api/issue"
)

// Start runs the periodic overdue digest. Each run aggregates the
// outstanding issues across all projects and mails a summary to the
// configured recipients.
func Start(ctx context.Context) {
	firstRunDelay := time.Duration(config.Conf.Worker.OverdueFirstRunInSec) * time.Second
	runInterval := time.Duration(config.Conf.Worker.OverdueIntervalInMin) * time.Minute
	worker := impl{
		BaseImpl: baseworker.NewInstance("overdue_digest", firstRunDelay, runInterval),
		store:    issuestore.NewInstance(db.DB),
		projects: projectstore.NewInstance(db.DB),
	}
	go worker.Run(ctx, worker.process)
}

type impl struct {
	*baseworker.BaseImpl
	store    issuestore.Provider
	projects projectstore.Provider
}

func (i impl) process(ctx context.Context) {
	logger := i.GetLogger()
	issues, err := i.store.ListOutstanding("", nil)
	if err != nil {
		logger.WithError(err).Error("outstanding issues query failed")
		return
	}
	if helpers.IsContextDone(ctx) {
		return
	}
	stats := issuehandler.Aggregate(issues, time.Now())
	if len(stats.Items) == 0 {
		logger.Info("no overdue or due-soon issues, digest skipped")
		return
	}
	recipients := i.digestRecipients(stats.Items)
	if len(recipients) == 0 {
		logger.Warn("no digest recipients, nothing configured and no project managers found")
		return
	}
	subject := fmt.Sprintf("Overdue issues digest: %d overdue, %d due soon", stats.OverdueCount, stats.WarningCount)
	body := buildDigestBody(stats.Items)
	for _, to := range recipients {
		if err = smtp.Instance.SendEMail(config.Conf.Smtp.DigestFrom, to, body, subject); err != nil {
			logger.
				WithField("to", to).
				WithError(err).
				Error("digest email send failed")
		}
	}
	logger.
		WithField("items", len(stats.Items)).
		Info("overdue digest sent")
}

// digestRecipients merges the configured addresses with the manager
// emails of every project that has an overdue or due-soon item.
func (i impl) digestRecipients(items []issueapimodels.IssueUrgencyView) []string {
	seen := map[string]bool{}
	recipients := []string{}
	add := func(to string) {
		if to == "" || seen[to] {
			return
		}
		seen[to] = true
		recipients = append(recipients, to)
	}
	for _, to := range config.Conf.Worker.DigestRecipients {
		add(to)
	}
	seenProject := map[string]bool{}
	for _, item := range items {
		if seenProject[item.ProjectID] {
			continue
		}
		seenProject[item.ProjectID] = true
		emails, err := i.projects.ManagerEmails(item.ProjectID)
		if err != nil {
			i.GetLogger().
				WithField("project_id", item.ProjectID).
				WithError(err).
				Error("project manager email lookup failed")
			continue
		}
		for _, to := range emails {
			add(to)
		}
	}
	return recipients
}

func buildDigestBody(items []issueapimodels.IssueUrgencyView) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		state := "due soon"
		if item.IsOverdue {
			state = "overdue"
		}
		due := ""
		if item.DueDate != nil {
			due = item.DueDate.Format("02.01.2006")
		}
		project := item.ProjectName
		if project == "" {
			project = item.ProjectID
		}
		lines = append(lines, fmt.Sprintf("[%s] %s (%s, priority %s, due %s)", state, item.Title, project, item.Priority, due))
	}
	return strings.Join(lines, "\n")
}

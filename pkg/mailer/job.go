package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/eventplanner/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has no recipient or content")

// Prepare renders the job's template, if any, and returns subject, text and html.
func Prepare(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrEmptyJob
	}
	if job.Template != "" {
		return templates.Render(job.Template, job.Data)
	}
	if job.Text == "" && job.HTML == "" {
		return "", "", "", ErrEmptyJob
	}
	return job.Subject, job.Text, job.HTML, nil
}

// Deliver renders and sends job through s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := Prepare(job)
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}

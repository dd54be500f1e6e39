package service

import (
	"context"
	"fmt"
	"strings"

	"eventhub/internal/model"
)

// DecisionLinks are the one-click action URLs embedded in an approval
// request email.
type DecisionLinks struct {
	Approve        string
	Reject         string
	RequestChanges string
}

func firstName(name string) string {
	if name == "" {
		return "there"
	}
	return strings.SplitN(name, " ", 2)[0]
}

func (n *Notifier) eventURL(eventID int64) string {
	return fmt.Sprintf("%s/events/%d", n.baseURL, eventID)
}

func (n *Notifier) footer() string {
	return fmt.Sprintf(`<hr/><p style="color:#6b7280;font-size:13px;">%s</p>`, n.appName)
}

// SendTaskAssignment notifies a newly assigned lead.
func (n *Notifier) SendTaskAssignment(ctx context.Context, event *model.Event, taskType string, assignee *model.User) bool {
	key := fmt.Sprintf("task_assign:%d:%s:%d", event.ID, taskType, assignee.ID)
	label := model.TaskLabel(taskType)

	body := fmt.Sprintf(`
		<h2>New Task Assignment</h2>
		<p>Hi %s,</p>
		<p>You've been assigned to handle <strong>%s</strong> for <strong>%s</strong>.</p>
		<p>Please review the details and accept the task:</p>
		<p><a href="%s">View Task</a></p>
		%s`,
		firstName(assignee.Name), label, event.Title, n.eventURL(event.ID), n.footer())

	return n.Send(ctx, Message{
		To:          assignee.Email,
		Subject:     fmt.Sprintf("[Assigned] %s task: %s", label, event.Title),
		Body:        body,
		Reason:      model.ReasonTaskAssignment,
		EventID:     &event.ID,
		RecipientID: &assignee.ID,
		DedupeKey:   &key,
	})
}

// SendApprovalRequest asks a financial approver to review a catering
// request. The links allow a decision without an authenticated session.
func (n *Notifier) SendApprovalRequest(ctx context.Context, event *model.Event, approver *model.User, links DecisionLinks) bool {
	key := fmt.Sprintf("approval_request:%d:%s:%d", event.ID, model.CateringAwaitingApproval, approver.ID)

	body := fmt.Sprintf(`
		<h2>Catering Approval Request</h2>
		<p>Hi %s,</p>
		<p>A catering request for <strong>%s</strong> needs your review and approval.</p>
		<p>
			<a href="%s">Approve</a> ·
			<a href="%s">Reject</a> ·
			<a href="%s">Request Changes</a>
		</p>
		<p>Or review the full request in the app: <a href="%s">Review Request</a></p>
		%s`,
		firstName(approver.Name), event.Title,
		links.Approve, links.Reject, links.RequestChanges,
		n.eventURL(event.ID), n.footer())

	return n.Send(ctx, Message{
		To:          approver.Email,
		Subject:     fmt.Sprintf("[Action Required] Catering approval: %s", event.Title),
		Body:        body,
		Reason:      model.ReasonApprovalRequest,
		EventID:     &event.ID,
		RecipientID: &approver.ID,
		DedupeKey:   &key,
	})
}

// SendPaymentRequest tells a payment admin an approved order is ready
// for payment.
func (n *Notifier) SendPaymentRequest(ctx context.Context, event *model.Event, recipient *model.User) bool {
	key := fmt.Sprintf("payment_request:%d:%d", event.ID, recipient.ID)

	body := fmt.Sprintf(`
		<h2>Payment Request</h2>
		<p>Hi %s,</p>
		<p>An approved catering order for <strong>%s</strong> is ready for payment processing.</p>
		<p><a href="%s">Process Payment</a></p>
		%s`,
		firstName(recipient.Name), event.Title, n.eventURL(event.ID), n.footer())

	return n.Send(ctx, Message{
		To:          recipient.Email,
		Subject:     fmt.Sprintf("[Payment Required] %s", event.Title),
		Body:        body,
		Reason:      model.ReasonPaymentRequest,
		EventID:     &event.ID,
		RecipientID: &recipient.ID,
		DedupeKey:   &key,
	})
}

// SendTaskReminder nudges an assignee who has not accepted a task.
func (n *Notifier) SendTaskReminder(ctx context.Context, event *model.Event, taskType string, assignee *model.User) bool {
	key := fmt.Sprintf("task_reminder:%d:%s:%d", event.ID, taskType, assignee.ID)
	label := model.TaskLabel(taskType)

	body := fmt.Sprintf(`
		<h2>Task Reminder</h2>
		<p>Hi %s,</p>
		<p>You were assigned to handle <strong>%s</strong> for <strong>%s</strong> over a week ago,
		but the task hasn't been accepted yet.</p>
		<p>Please review and accept the task as soon as possible:</p>
		<p><a href="%s">Accept Task</a></p>
		%s`,
		firstName(assignee.Name), label, event.Title, n.eventURL(event.ID), n.footer())

	return n.Send(ctx, Message{
		To:          assignee.Email,
		Subject:     fmt.Sprintf("[Reminder] %s task still pending: %s", label, event.Title),
		Body:        body,
		Reason:      model.ReasonTaskReminder,
		EventID:     &event.ID,
		RecipientID: &assignee.ID,
		DedupeKey:   &key,
	})
}

package webhook

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staticman-gateway/internal/completion"
	"staticman-gateway/internal/model"
	pkgLog "staticman-gateway/pkg/log"
	pkgResponse "staticman-gateway/pkg/response"
)

// HandleGitHubWebhook processes GitHub webhook events
// @Summary GitHub webhook
// @Description Receives pull_request deliveries and notifies when a gateway pull request is merged. Always acknowledges with 200 once the delivery is authenticated.
// @Tags webhook
// @Accept json
// @Produce json
// @Param X-GitHub-Event header string true "Event type"
// @Param X-GitHub-Delivery header string false "Delivery id"
// @Success 200 {object} pkgResponse.Resp
// @Failure 401 {object} pkgResponse.Resp
// @Router /v1/webhook [post]
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	delivery, ok := h.receive(c, model.ServiceGitHub, headerGitHubEvent, headerGitHubDelivery)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.security.ValidateGitHubSignature(delivery.Payload, c.GetHeader(headerGitHubSignature)); err != nil {
		h.l.Warnf(ctx, "webhook.HandleGitHubWebhook: delivery=%s: %v", delivery.DeliveryID, err)
		pkgResponse.Unauthorized(c)
		return
	}

	if delivery.EventType != model.GitHubEventPullRequest {
		h.ignore(c, delivery)
		return
	}

	ref, err := h.githubParser.ParsePullRequestEvent(delivery.Payload)
	h.process(c, delivery, ref, err)
}

// HandleGitLabWebhook processes GitLab webhook events
// @Summary GitLab webhook
// @Description Receives Merge Request Hook deliveries. Always acknowledges with 200 once the delivery is authenticated.
// @Tags webhook
// @Accept json
// @Produce json
// @Param X-Gitlab-Event header string true "Event type"
// @Success 200 {object} pkgResponse.Resp
// @Failure 401 {object} pkgResponse.Resp
// @Router /v1/webhook/gitlab [post]
func (h *Handler) HandleGitLabWebhook(c *gin.Context) {
	delivery, ok := h.receive(c, model.ServiceGitLab, headerGitLabEvent, headerGitLabDelivery)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.security.ValidateGitLabToken(c.GetHeader(headerGitLabToken)); err != nil {
		h.l.Warnf(ctx, "webhook.HandleGitLabWebhook: delivery=%s: %v", delivery.DeliveryID, err)
		pkgResponse.Unauthorized(c)
		return
	}

	if delivery.EventType != model.GitLabEventMergeRequest {
		h.ignore(c, delivery)
		return
	}

	ref, err := h.gitlabParser.ParseMergeRequestEvent(delivery.Payload)
	h.process(c, delivery, ref, err)
}

// receive reads the delivery off the request. When the body cannot be read
// it acknowledges the delivery as discarded and returns false.
func (h *Handler) receive(c *gin.Context, service model.Service, eventHeader, deliveryHeader string) (model.WebhookDelivery, bool) {
	deliveryID := c.GetHeader(deliveryHeader)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}
	ctx := pkgLog.WithTraceID(c.Request.Context(), deliveryID)
	c.Request = c.Request.WithContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPayload))
	if err != nil {
		h.l.Warnf(ctx, "webhook.receive: delivery=%s read body: %v", deliveryID, err)
		pkgResponse.OK(c, ackResponse{Status: statusDiscarded, DeliveryID: deliveryID})
		return model.WebhookDelivery{}, false
	}

	return model.WebhookDelivery{
		Service:    service,
		EventType:  c.GetHeader(eventHeader),
		DeliveryID: deliveryID,
		Payload:    body,
	}, true
}

func (h *Handler) ignore(c *gin.Context, delivery model.WebhookDelivery) {
	h.l.Infof(c.Request.Context(), "webhook: delivery=%s unsupported %s event %q ignored", delivery.DeliveryID, delivery.Service, delivery.EventType)
	pkgResponse.OK(c, ackResponse{Status: statusIgnored, DeliveryID: delivery.DeliveryID})
}

// process runs the detector on a context detached from the caller and
// acknowledges with its outcome. When detection outlives the ack budget the
// delivery is acknowledged as accepted and detection finishes in the
// background.
func (h *Handler) process(c *gin.Context, delivery model.WebhookDelivery, ref model.PullRequestRef, parseErr error) {
	ctx := c.Request.Context()

	if parseErr != nil {
		h.l.Warnf(ctx, "webhook.process: delivery=%s: %v", delivery.DeliveryID, parseErr)
		pkgResponse.OK(c, ackResponse{
			Status:     statusDiscarded,
			DeliveryID: delivery.DeliveryID,
			Outcome:    string(completion.OutcomeMissingIdentity),
		})
		return
	}

	done := make(chan completion.DetectOutput, 1)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.processTimeout)
		defer cancel()

		out, err := h.completionUC.Detect(ctx, completion.DetectInput{
			DeliveryID: delivery.DeliveryID,
			Ref:        ref,
		})
		if err != nil {
			h.l.Warnf(ctx, "webhook.process: delivery=%s outcome=%s: %v", delivery.DeliveryID, out.Outcome, err)
		}
		done <- out
	}()

	timer := time.NewTimer(h.ackTimeout)
	defer timer.Stop()

	var out completion.DetectOutput
	select {
	case out = <-done:
	case <-timer.C:
		h.l.Warnf(ctx, "webhook.process: delivery=%s still running after %s, acknowledging early", delivery.DeliveryID, h.ackTimeout)
		pkgResponse.OK(c, ackResponse{Status: statusAccepted, DeliveryID: delivery.DeliveryID})
		return
	}

	status := statusDiscarded
	if out.Outcome.Notified() {
		status = statusProcessed
	}
	pkgResponse.OK(c, ackResponse{
		Status:     status,
		DeliveryID: delivery.DeliveryID,
		Outcome:    string(out.Outcome),
	})
}

// Package msgapi exposes active messages over HTTP: sending them now or
// through the queue, inspecting registered types, and editing stored
// template overrides.
package msgapi

import (
	"context"
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/activemsg/msghook"
	"github.com/Abraxas-365/activemail/pkg/auth"
	"github.com/Abraxas-365/activemail/pkg/msgqueue"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// JobQueue is the part of msgqueue.Client the handlers use.
type JobQueue interface {
	Enqueue(ctx context.Context, job msgqueue.Job) (string, error)
	EnqueueDelayed(ctx context.Context, job msgqueue.Job, delay time.Duration) (string, error)
	GetJob(ctx context.Context, jobID string) (*msgqueue.JobInfo, error)
}

// Authenticator guards the routes. auth.TokenMiddleware implements it.
type Authenticator interface {
	Authenticate() fiber.Handler
	RequireScope(scope string) fiber.Handler
}

// Handlers serves the message API.
type Handlers struct {
	registry       *activemsg.Registry
	client         *activemsg.Client
	queue          JobQueue
	templates      tmplstore.Store
	rdb            redis.Cmdable
	suppressionKey string
}

// Option configures Handlers.
type Option func(*Handlers)

// WithQueue enables async sends and job lookups.
func WithQueue(q JobQueue) Option {
	return func(h *Handlers) {
		h.queue = q
	}
}

// WithTemplates enables the template endpoints.
func WithTemplates(store tmplstore.Store) Option {
	return func(h *Handlers) {
		h.templates = store
	}
}

// WithSuppression enables adding addresses to the suppression set.
func WithSuppression(rdb redis.Cmdable, key string) Option {
	return func(h *Handlers) {
		h.rdb = rdb
		h.suppressionKey = key
	}
}

// New creates the handlers. Messages are built from registry and sent with client.
func New(registry *activemsg.Registry, client *activemsg.Client, opts ...Option) *Handlers {
	h := &Handlers{registry: registry, client: client}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RegisterRoutes mounts the API on router. Every route needs a valid token;
// sending and writes also need their scope.
func (h *Handlers) RegisterRoutes(router fiber.Router, authn Authenticator) {
	router.Use(authn.Authenticate())

	messages := router.Group("/messages")
	messages.Get("/", h.ListMessages)
	messages.Get("/:name", h.DescribeMessage)
	messages.Post("/:name/send", authn.RequireScope(auth.ScopeMessagesSend), h.SendMessage)

	router.Get("/jobs/:id", h.GetJob)

	templates := router.Group("/templates")
	templates.Get("/", h.ListTemplates)
	templates.Get("/:name", h.GetTemplate)
	templates.Put("/:name", authn.RequireScope(auth.ScopeTemplatesWrite), h.SaveTemplate)
	templates.Delete("/:name", authn.RequireScope(auth.ScopeTemplatesWrite), h.DeleteTemplate)

	router.Post("/suppressions", authn.RequireScope(auth.ScopeSuppressionsWrite), h.Suppress)
}

// ============================================================================
// Messages
// ============================================================================

// MessageInfo describes a registered message type.
type MessageInfo struct {
	Name     string            `json:"name"`
	Template string            `json:"template"`
	View     string            `json:"view"`
	Hints    map[string]string `json:"hints"`
}

// SendRequest is the body of POST /messages/:name/send.
type SendRequest struct {
	Params         map[string]any   `json:"params"`
	Fields         activemsg.Fields `json:"fields"`
	SkipValidation bool             `json:"skip_validation"`
	// Async hands the message to the queue instead of sending it now.
	Async bool `json:"async"`
	// Delay postpones an async send, e.g. "10m".
	Delay string `json:"delay"`
	Queue string `json:"queue"`
}

// SendResponse reports a synchronous send.
type SendResponse struct {
	Sent     bool     `json:"sent"`
	Vetoed   bool     `json:"vetoed,omitempty"`
	Template string   `json:"template"`
	Warnings []string `json:"warnings,omitempty"`
}

// ListMessages returns the registered message names.
func (h *Handlers) ListMessages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"messages": h.registry.Names()})
}

// DescribeMessage reports the template name, view and substitution tokens
// of a message type. Query parameters are passed to the factory.
func (h *Handlers) DescribeMessage(c *fiber.Ctx) error {
	name := c.Params("name")

	params := make(map[string]any)
	for k, v := range c.Queries() {
		params[k] = v
	}

	v, err := h.registry.Build(name, params)
	if err != nil {
		return err
	}

	msg := activemsg.New(v)
	return c.JSON(MessageInfo{
		Name:     name,
		Template: msg.TemplateName(),
		View:     msg.ViewName(),
		Hints:    msg.TemplateDataHints(),
	})
}

// SendMessage sends a message now, or enqueues it when the request is async.
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	var req SendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	name := c.Params("name")
	if req.Async {
		return h.enqueue(c, name, req)
	}

	v, err := h.registry.Build(name, req.Params)
	if err != nil {
		return err
	}

	msg := h.client.New(v)
	req.Fields.ApplyTo(msg)

	sent, err := msg.Send(c.UserContext(), activemsg.WithValidation(!req.SkipValidation))
	if err != nil {
		return err
	}

	return c.JSON(SendResponse{
		Sent:     sent,
		Vetoed:   msg.Vetoed(),
		Template: msg.TemplateName(),
		Warnings: msg.Warnings(),
	})
}

func (h *Handlers) enqueue(c *fiber.Ctx, name string, req SendRequest) error {
	if h.queue == nil {
		return apiErrors.New(ErrQueueDisabled)
	}

	job := msgqueue.Job{
		Message:        name,
		Params:         req.Params,
		Fields:         req.Fields,
		SkipValidation: req.SkipValidation,
		Queue:          req.Queue,
	}

	var (
		id  string
		err error
	)
	if req.Delay != "" {
		delay, perr := time.ParseDuration(req.Delay)
		if perr != nil || delay < 0 {
			return apiErrors.New(ErrBadRequest).WithDetail("delay", req.Delay)
		}
		id, err = h.queue.EnqueueDelayed(c.UserContext(), job, delay)
	} else {
		id, err = h.queue.Enqueue(c.UserContext(), job)
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": id})
}

// GetJob returns the state of a queued send.
func (h *Handlers) GetJob(c *fiber.Ctx) error {
	if h.queue == nil {
		return apiErrors.New(ErrQueueDisabled)
	}

	job, err := h.queue.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(job)
}

// ============================================================================
// Templates
// ============================================================================

// ListTemplates returns the names of stored overrides.
func (h *Handlers) ListTemplates(c *fiber.Ctx) error {
	if h.templates == nil {
		return apiErrors.New(ErrTemplatesMissing)
	}

	names, err := h.templates.Names(c.UserContext())
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(fiber.Map{"templates": names})
}

// GetTemplate returns one stored override.
func (h *Handlers) GetTemplate(c *fiber.Ctx) error {
	if h.templates == nil {
		return apiErrors.New(ErrTemplatesMissing)
	}

	name := c.Params("name")
	override, err := h.templates.Template(c.UserContext(), name)
	if err != nil {
		return err
	}
	if len(override) == 0 {
		return apiErrors.New(ErrTemplateNotFound).WithDetail("template", name)
	}
	return c.JSON(override)
}

// SaveTemplate replaces the stored override with the request body.
func (h *Handlers) SaveTemplate(c *fiber.Ctx) error {
	if h.templates == nil {
		return apiErrors.New(ErrTemplatesMissing)
	}

	var override activemsg.TemplateOverride
	if err := parseBody(c, &override); err != nil {
		return err
	}

	if err := h.templates.Save(c.UserContext(), c.Params("name"), override); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteTemplate removes a stored override.
func (h *Handlers) DeleteTemplate(c *fiber.Ctx) error {
	if h.templates == nil {
		return apiErrors.New(ErrTemplatesMissing)
	}

	if err := h.templates.Delete(c.UserContext(), c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Suppression
// ============================================================================

// SuppressRequest is the body of POST /suppressions.
type SuppressRequest struct {
	Addresses []string `json:"addresses"`
}

// Suppress adds addresses to the suppression set.
func (h *Handlers) Suppress(c *fiber.Ctx) error {
	if h.rdb == nil {
		return apiErrors.New(ErrSuppressionOff)
	}

	var req SuppressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if len(req.Addresses) == 0 {
		return apiErrors.New(ErrBadRequest).WithDetail("addresses", "at least one address is required")
	}

	if err := msghook.Suppress(c.UserContext(), h.rdb, h.suppressionKey, req.Addresses...); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes a JSON body. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apiErrors.NewWithCause(ErrBadRequest, err)
	}
	return nil
}
